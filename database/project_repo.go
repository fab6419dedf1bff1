package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// Insert adds a new project, generating its id when unset
func (r *ProjectRepo) Insert(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return errs.NewDatabaseError("insert", "project", err)
	}
	return nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	// the column is uuid typed; anything else can never match
	if _, err := uuid.Parse(id); err != nil {
		return nil, errs.NewNotFound("project")
	}
	return r.first(ctx, models.ColumnID+" = ?", id)
}

func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return r.first(ctx, models.ColumnSlug+" = ?", slug)
}

func (r *ProjectRepo) first(ctx context.Context, query string, args ...interface{}) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where(query, args...).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get", "project", err)
	}
	return &project, nil
}

// Find returns the projects matching q
func (r *ProjectRepo) Find(ctx context.Context, q ProjectQuery) ([]*models.Project, error) {
	tx := r.db.WithContext(ctx).Model(&models.Project{})
	if q.Deleted != nil {
		tx = tx.Where(models.ColumnIsDeleted+" = ?", *q.Deleted)
	}
	if q.DeletedAtOrBefore != nil {
		tx = tx.Where(models.ColumnDeletedAt+" <= ?", *q.DeletedAtOrBefore)
	}
	if q.Category != "" {
		tx = tx.Where(models.ColumnCategory+" = ?", q.Category)
	}
	switch q.OrderBy {
	case OrderCreatedAtDesc:
		tx = tx.Order(models.ColumnCreatedAt + " DESC")
	case OrderDeletedAtDesc:
		tx = tx.Order(models.ColumnDeletedAt + " DESC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	projects := []*models.Project{}
	if err := tx.Find(&projects).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

// Update applies changes to the project with the given id
func (r *ProjectRepo) Update(ctx context.Context, id string, changes Changes) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.NewNotFound("project")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where(models.ColumnID+" = ?", id).
		Updates(map[string]interface{}(changes))
	if res.Error != nil {
		return errs.NewDatabaseError("update", "project", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

// IncrementLikes runs likes = likes + delta on an active project
func (r *ProjectRepo) IncrementLikes(ctx context.Context, id string, delta int64) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.NewNotFound("project")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where(models.ColumnID+" = ? AND "+models.ColumnIsDeleted+" = ?", id, false).
		UpdateColumn(models.ColumnLikes, gorm.Expr(models.ColumnLikes+" + ?", delta))
	if res.Error != nil {
		return errs.NewDatabaseError("like", "project", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if err := r.db.WithContext(ctx).Where(models.ColumnID+" = ?", id).Delete(&models.Project{}).Error; err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}
	return nil
}
