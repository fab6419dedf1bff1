package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const day = 24 * time.Hour

// binAgo creates a project and bins it age before the fixture's current time.
func (f *fixture) binAgo(t *testing.T, title string, age time.Duration) *models.Project {
	t.Helper()
	p := f.create(t, title)
	f.clock.Advance(-age)
	if _, err := f.manager.SoftDelete(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(age)
	return p
}

func TestSweeperPurgesOnlyExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expired := f.binAgo(t, "Expired", 31*day)
	recent := f.binAgo(t, "Recent", 29*day)
	active := f.create(t, "Active")

	sweeper := NewSweeper(f.manager, "", 0)
	purged, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}

	if _, err := f.manager.Get(ctx, expired.ID); !errs.IsNotFound(err) {
		t.Errorf("expired project survived: %v", err)
	}
	if _, err := f.manager.Get(ctx, recent.ID); err != nil {
		t.Errorf("recent project purged early: %v", err)
	}
	if _, err := f.manager.Get(ctx, active.ID); err != nil {
		t.Errorf("active project touched: %v", err)
	}

	// nothing left to do on a second run
	purged, err = sweeper.Run(ctx)
	if err != nil || purged != 0 {
		t.Errorf("second run = %d, %v", purged, err)
	}
}

func TestSweeperCutoffIsInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	onCutoff := f.binAgo(t, "On cutoff", 30*day)
	justInside := f.binAgo(t, "Just inside", 30*day-time.Second)

	purged, err := NewSweeper(f.manager, "", 0).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
	if _, err := f.manager.Get(ctx, onCutoff.ID); !errs.IsNotFound(err) {
		t.Errorf("project binned exactly at the cutoff survived: %v", err)
	}
	if _, err := f.manager.Get(ctx, justInside.ID); err != nil {
		t.Errorf("project binned one second after the cutoff was purged: %v", err)
	}
}

func TestSweeperCountsRecordsWithFailedAssets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validInput("Stuck asset")
	in.MediaURL = ""
	in.Media = &Upload{Filename: "a.png", Body: bytes.NewReader(pngHeader)}
	p, err := f.manager.Create(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	f.objects.FailDeletes[p.MediaPath] = errors.New("access denied")
	f.clock.Advance(-40 * day)
	_, _ = f.manager.SoftDelete(ctx, p.ID)
	f.clock.Advance(40 * day)

	f.binAgo(t, "Clean", 35*day)

	purged, err := NewSweeper(f.manager, "", 0).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purged != 2 {
		t.Errorf("purged = %d, want 2", purged)
	}
	if !f.objects.Has(p.MediaPath) {
		t.Error("failing asset should still be in the store")
	}
}

type failingStore struct {
	database.ProjectStore
	findErr   error
	deleteErr map[string]error
}

func (s *failingStore) Find(ctx context.Context, q database.ProjectQuery) ([]*models.Project, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.ProjectStore.Find(ctx, q)
}

func (s *failingStore) Delete(ctx context.Context, id string) error {
	if err, ok := s.deleteErr[id]; ok {
		return err
	}
	return s.ProjectStore.Delete(ctx, id)
}

func TestSweeperQueryFailure(t *testing.T) {
	f := newFixture(t)
	store := &failingStore{ProjectStore: f.projects, findErr: errors.New("connection reset")}
	m := NewManager(store, f.objects, WithClock(f.clock.Now))

	purged, err := NewSweeper(m, "", 0).Run(context.Background())
	if err == nil || purged != 0 {
		t.Fatalf("Run = %d, %v; want 0 and an error", purged, err)
	}
}

func TestSweeperContinuesAfterRecordFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	broken := f.binAgo(t, "Broken", 31*day)
	f.binAgo(t, "Fine", 32*day)

	store := &failingStore{
		ProjectStore: f.projects,
		deleteErr:    map[string]error{broken.ID: errs.NewDatabaseError("delete", "project", errors.New("timeout"))},
	}
	m := NewManager(store, f.objects, WithClock(f.clock.Now))

	purged, err := NewSweeper(m, "", 0).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
	if _, err := f.manager.Get(ctx, broken.ID); err != nil {
		t.Errorf("failed record should remain for the next run: %v", err)
	}
}

func TestSweeperRetentionOption(t *testing.T) {
	f := newFixture(t)
	p := f.binAgo(t, "Short lived", 8*day)
	m := NewManager(f.projects, f.objects, WithClock(f.clock.Now), WithRetentionDays(7))

	purged, err := NewSweeper(m, "", 0).Run(context.Background())
	if err != nil || purged != 1 {
		t.Fatalf("Run = %d, %v", purged, err)
	}
	if _, err := m.Get(context.Background(), p.ID); !errs.IsNotFound(err) {
		t.Errorf("project not purged with 7 day retention: %v", err)
	}
}

func TestSweeperSchedule(t *testing.T) {
	f := newFixture(t)

	bad := NewSweeper(f.manager, "not a schedule", time.Second)
	if err := bad.Start(); err == nil {
		t.Fatal("expected error for invalid schedule")
	}

	s := NewSweeper(f.manager, "@every 1h", time.Second)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestNewBinEntry(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}

	tests := []struct {
		name      string
		deletedAt *time.Time
		remaining int
		status    string
	}{
		{"just binned", at(time.Minute), 30, "in 30 days"},
		{"partial day rounds down", at(36 * time.Hour), 29, "in 29 days"},
		{"one day left", at(29 * day), 1, "in 1 day"},
		{"expiring today", at(30 * day), 0, StatusDeletingSoon},
		{"overdue", at(45 * day), -15, StatusDeletingSoon},
		{"no timestamp", nil, 30, StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewBinEntry(&models.Project{IsDeleted: true, DeletedAt: tt.deletedAt}, now, 30)
			if entry.DaysRemaining != tt.remaining || entry.Status != tt.status {
				t.Errorf("got %d %q, want %d %q", entry.DaysRemaining, entry.Status, tt.remaining, tt.status)
			}
		})
	}
}

func TestListBin(t *testing.T) {
	f := newFixture(t)
	f.binAgo(t, "Older", 10*day)
	f.binAgo(t, "Newer", 2*day)
	f.create(t, "Active")

	entries, err := f.manager.ListBin(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d", len(entries))
	}
	if entries[0].Title != "Newer" || entries[0].DaysRemaining != 28 {
		t.Errorf("first entry = %s %d", entries[0].Title, entries[0].DaysRemaining)
	}
	if entries[1].DaysRemaining != 20 {
		t.Errorf("second entry days = %d", entries[1].DaysRemaining)
	}
}
