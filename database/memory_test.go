package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

func seed(t *testing.T, repo *MemoryProjectRepo, slug, category string, created time.Time, deleted *time.Time) *models.Project {
	t.Helper()
	p := &models.Project{
		Slug:      slug,
		Title:     slug,
		Category:  category,
		CreatedAt: created,
		IsDeleted: deleted != nil,
		DeletedAt: deleted,
	}
	if err := repo.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert %s: %v", slug, err)
	}
	return p
}

func TestMemoryProjectRepoInsertAssignsID(t *testing.T) {
	repo := NewMemoryProjectRepo()
	p := seed(t, repo, "a", "art", time.Now(), nil)
	if p.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := repo.FindByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Slug != "a" {
		t.Errorf("slug = %q", got.Slug)
	}

	err = repo.Insert(context.Background(), &models.Project{Slug: "a"})
	if !errs.IsUniqueConstraintViolationError(err) {
		t.Errorf("duplicate slug: got %v", err)
	}
}

func TestMemoryProjectRepoFind(t *testing.T) {
	repo := NewMemoryProjectRepo()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-40 * 24 * time.Hour)
	recent := now.Add(-2 * 24 * time.Hour)

	seed(t, repo, "first", "art", now.Add(-3*time.Hour), nil)
	seed(t, repo, "second", "music", now.Add(-2*time.Hour), nil)
	seed(t, repo, "third", "art", now.Add(-1*time.Hour), nil)
	seed(t, repo, "old-bin", "art", now.Add(-50*24*time.Hour), &old)
	seed(t, repo, "new-bin", "art", now.Add(-5*24*time.Hour), &recent)

	ctx := context.Background()

	active, _ := repo.Find(ctx, Active(""))
	if len(active) != 3 || active[0].Slug != "third" || active[2].Slug != "first" {
		t.Errorf("Active(\"\") = %v", slugs(active))
	}

	art, _ := repo.Find(ctx, Active("art"))
	if len(art) != 2 {
		t.Errorf("Active(art) = %v", slugs(art))
	}

	bin, _ := repo.Find(ctx, Binned())
	if len(bin) != 2 || bin[0].Slug != "new-bin" {
		t.Errorf("Binned() = %v", slugs(bin))
	}

	eligible, _ := repo.Find(ctx, BinnedBefore(now.Add(-30*24*time.Hour)))
	if len(eligible) != 1 || eligible[0].Slug != "old-bin" {
		t.Errorf("BinnedBefore = %v", slugs(eligible))
	}
}

func TestMemoryProjectRepoUpdate(t *testing.T) {
	repo := NewMemoryProjectRepo()
	p := seed(t, repo, "a", "art", time.Now(), nil)
	ctx := context.Background()

	now := time.Now()
	if err := repo.Update(ctx, p.ID, Changes{models.ColumnIsDeleted: true, models.ColumnDeletedAt: now}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.FindByID(ctx, p.ID)
	if !got.IsDeleted || got.DeletedAt == nil || !got.DeletedAt.Equal(now) {
		t.Errorf("after bin: %+v", got)
	}

	if err := repo.Update(ctx, p.ID, Changes{models.ColumnIsDeleted: false, models.ColumnDeletedAt: nil}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = repo.FindByID(ctx, p.ID)
	if got.IsDeleted || got.DeletedAt != nil {
		t.Errorf("after restore: %+v", got)
	}

	if err := repo.Update(ctx, "missing", Changes{models.ColumnTitle: "x"}); !errs.IsNotFound(err) {
		t.Errorf("missing id: got %v", err)
	}
	if err := repo.Update(ctx, p.ID, Changes{models.ColumnLikes: 10}); err == nil {
		t.Error("likes must not be writable through Update")
	}
}

func TestMemoryProjectRepoIncrementLikesConcurrent(t *testing.T) {
	repo := NewMemoryProjectRepo()
	p := seed(t, repo, "a", "art", time.Now(), nil)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.IncrementLikes(ctx, p.ID, 1)
		}()
	}
	wg.Wait()

	got, _ := repo.FindByID(ctx, p.ID)
	if got.Likes != n {
		t.Errorf("likes = %d, want %d", got.Likes, n)
	}
}

func TestMemoryProjectRepoIncrementLikesBinned(t *testing.T) {
	repo := NewMemoryProjectRepo()
	now := time.Now()
	p := seed(t, repo, "a", "art", now, &now)

	if err := repo.IncrementLikes(context.Background(), p.ID, 1); !errs.IsNotFound(err) {
		t.Errorf("binned like: got %v", err)
	}
}

func TestMemoryProjectRepoDeleteIsIdempotent(t *testing.T) {
	repo := NewMemoryProjectRepo()
	p := seed(t, repo, "a", "art", time.Now(), nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Delete(ctx, p.ID); err != nil {
			t.Fatalf("Delete #%d: %v", i, err)
		}
	}
	if _, err := repo.FindByID(ctx, p.ID); !errs.IsNotFound(err) {
		t.Errorf("after delete: %v", err)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	repo := NewMemoryProjectRepo()
	p := seed(t, repo, "a", "art", time.Now(), nil)

	got, _ := repo.FindByID(context.Background(), p.ID)
	got.Title = "mutated"

	again, _ := repo.FindByID(context.Background(), p.ID)
	if again.Title != "a" {
		t.Error("store state leaked through returned pointer")
	}
}

func TestMemoryContactAndSettings(t *testing.T) {
	ctx := context.Background()
	contacts := NewMemoryContactRepo()
	base := time.Now()
	for i, name := range []string{"ann", "bob", "cy"} {
		m := &models.ContactMessage{Name: name, SubmittedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := contacts.Insert(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	list, _ := contacts.List(ctx, 2)
	if len(list) != 2 || list[0].Name != "cy" {
		t.Errorf("List(2) = %+v", list)
	}

	settings := NewMemorySettingsRepo()
	if _, err := settings.Get(ctx, models.SettingAvatar); !errs.IsNotFound(err) {
		t.Errorf("missing setting: %v", err)
	}
	_ = settings.Put(ctx, &models.Setting{Key: models.SettingAvatar, Value: "https://x/a.png"})
	_ = settings.Put(ctx, &models.Setting{Key: models.SettingAvatar, Value: "https://x/b.png"})
	s, err := settings.Get(ctx, models.SettingAvatar)
	if err != nil || s.Value != "https://x/b.png" {
		t.Errorf("Get avatar = %+v, %v", s, err)
	}
}

func slugs(ps []*models.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Slug
	}
	return out
}
