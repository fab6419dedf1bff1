package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// MemoryProjectRepo is a ProjectStore held in a map. Every value crossing the API is
// copied so callers never share state with the store.
type MemoryProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*models.Project
}

func NewMemoryProjectRepo() *MemoryProjectRepo {
	return &MemoryProjectRepo{projects: make(map[string]*models.Project)}
}

func (r *MemoryProjectRepo) Insert(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if _, ok := r.projects[project.ID]; ok {
		return errs.NewAlreadyExists("project " + project.ID)
	}
	for _, p := range r.projects {
		if p.Slug == project.Slug {
			return errs.NewDatabaseError("insert", "project", fmt.Errorf("duplicate key value violates unique constraint on slug %q", project.Slug))
		}
	}
	r.projects[project.ID] = project.Clone()
	return nil
}

func (r *MemoryProjectRepo) FindByID(_ context.Context, id string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	return p.Clone(), nil
}

func (r *MemoryProjectRepo) FindBySlug(_ context.Context, slug string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.projects {
		if p.Slug == slug {
			return p.Clone(), nil
		}
	}
	return nil, errs.NewNotFound("project")
}

func (r *MemoryProjectRepo) Find(_ context.Context, q ProjectQuery) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*models.Project{}
	for _, p := range r.projects {
		if q.Deleted != nil && p.IsDeleted != *q.Deleted {
			continue
		}
		if q.DeletedAtOrBefore != nil && (p.DeletedAt == nil || p.DeletedAt.After(*q.DeletedAtOrBefore)) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p.Clone())
	}

	switch q.OrderBy {
	case OrderCreatedAtDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case OrderDeletedAtDesc:
		sort.SliceStable(out, func(i, j int) bool { return deletedAt(out[i]).After(deletedAt(out[j])) })
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func deletedAt(p *models.Project) time.Time {
	if p.DeletedAt == nil {
		return time.Time{}
	}
	return *p.DeletedAt
}

func (r *MemoryProjectRepo) Update(_ context.Context, id string, changes Changes) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return errs.NewNotFound("project")
	}
	updated := p.Clone()
	if err := applyChanges(updated, changes); err != nil {
		return errs.NewDatabaseError("update", "project", err)
	}
	r.projects[id] = updated
	return nil
}

func (r *MemoryProjectRepo) IncrementLikes(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok || p.IsDeleted {
		return errs.NewNotFound("project")
	}
	p.Likes += delta
	return nil
}

func (r *MemoryProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.projects, id)
	return nil
}

func applyChanges(p *models.Project, changes Changes) error {
	for column, value := range changes {
		var ok bool
		switch column {
		case models.ColumnTitle:
			p.Title, ok = value.(string)
		case models.ColumnCategory:
			p.Category, ok = value.(string)
		case models.ColumnDescription:
			p.Description, ok = value.(string)
		case models.ColumnMediaHint:
			p.MediaHint, ok = value.(string)
		case models.ColumnMediaURL:
			p.MediaURL, ok = value.(string)
		case models.ColumnMediaPath:
			p.MediaPath, ok = value.(string)
		case models.ColumnMediaType:
			p.MediaType, ok = value.(string)
		case models.ColumnThumbnailURL:
			p.ThumbnailURL, ok = value.(string)
		case models.ColumnThumbnailPath:
			p.ThumbnailPath, ok = value.(string)
		case models.ColumnDocumentURL:
			p.DocumentURL, ok = value.(string)
		case models.ColumnDocumentPath:
			p.DocumentPath, ok = value.(string)
		case models.ColumnSkills:
			switch v := value.(type) {
			case datatypes.JSONSlice[string]:
				p.Skills, ok = append(datatypes.JSONSlice[string]{}, v...), true
			case []string:
				p.Skills, ok = append(datatypes.JSONSlice[string]{}, v...), true
			}
		case models.ColumnDetails:
			p.Details, ok = value.(models.ProjectDetails)
		case models.ColumnIsDeleted:
			p.IsDeleted, ok = value.(bool)
		case models.ColumnDeletedAt:
			switch v := value.(type) {
			case nil:
				p.DeletedAt, ok = nil, true
			case time.Time:
				p.DeletedAt, ok = &v, true
			case *time.Time:
				if v == nil {
					p.DeletedAt = nil
				} else {
					t := *v
					p.DeletedAt = &t
				}
				ok = true
			}
		default:
			return fmt.Errorf("column %q cannot be updated", column)
		}
		if !ok {
			return fmt.Errorf("column %q: unexpected value type %T", column, value)
		}
	}
	return nil
}

type MemoryContactRepo struct {
	mu       sync.Mutex
	messages []*models.ContactMessage
}

func NewMemoryContactRepo() *MemoryContactRepo {
	return &MemoryContactRepo{}
}

func (r *MemoryContactRepo) Insert(_ context.Context, m *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	c := *m
	r.messages = append(r.messages, &c)
	return nil
}

func (r *MemoryContactRepo) List(_ context.Context, limit int) ([]*models.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.ContactMessage, 0, len(r.messages))
	for _, m := range r.messages {
		c := *m
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type MemorySettingsRepo struct {
	mu       sync.Mutex
	settings map[string]models.Setting
}

func NewMemorySettingsRepo() *MemorySettingsRepo {
	return &MemorySettingsRepo{settings: make(map[string]models.Setting)}
}

func (r *MemorySettingsRepo) Get(_ context.Context, key string) (*models.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.settings[key]
	if !ok {
		return nil, errs.NewNotFound("setting " + key)
	}
	return &s, nil
}

func (r *MemorySettingsRepo) Put(_ context.Context, s *models.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[s.Key] = *s
	return nil
}
