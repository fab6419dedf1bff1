package database

import (
	"context"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
)

// Changes is a partial update keyed by column name (see the models.Column* constants).
// A nil value clears the column.
type Changes map[string]interface{}

// Order selects the sort applied by ProjectStore.Find.
type Order int

const (
	OrderNone Order = iota
	OrderCreatedAtDesc
	OrderDeletedAtDesc
)

// ProjectQuery filters ProjectStore.Find. Zero values mean "no constraint".
type ProjectQuery struct {
	Deleted           *bool
	DeletedAtOrBefore *time.Time
	Category          string
	OrderBy           Order
	Limit             int
}

// Active is the query for the public gallery.
func Active(category string) ProjectQuery {
	f := false
	return ProjectQuery{Deleted: &f, Category: category, OrderBy: OrderCreatedAtDesc}
}

// Binned is the query for the admin bin, newest first.
func Binned() ProjectQuery {
	t := true
	return ProjectQuery{Deleted: &t, OrderBy: OrderDeletedAtDesc}
}

// BinnedBefore selects binned projects whose deletedAt is at or before cutoff.
func BinnedBefore(cutoff time.Time) ProjectQuery {
	t := true
	return ProjectQuery{Deleted: &t, DeletedAtOrBefore: &cutoff}
}

// ProjectStore is the record store for projects. Lookups of an unknown id return an
// errs.ErrNotFound error; Delete of an unknown id succeeds.
type ProjectStore interface {
	// Insert assigns an id when p.ID is empty.
	Insert(ctx context.Context, p *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	Find(ctx context.Context, q ProjectQuery) ([]*models.Project, error)
	Update(ctx context.Context, id string, changes Changes) error
	// IncrementLikes adds delta to likes of an active project in a single store operation.
	IncrementLikes(ctx context.Context, id string, delta int64) error
	Delete(ctx context.Context, id string) error
}

type ContactStore interface {
	Insert(ctx context.Context, m *models.ContactMessage) error
	// List returns messages newest first.
	List(ctx context.Context, limit int) ([]*models.ContactMessage, error)
}

type SettingsStore interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Put(ctx context.Context, s *models.Setting) error
}
