package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

func (r *ContactRepo) Insert(ctx context.Context, m *models.ContactMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return errs.NewDatabaseError("insert", "contact message", err)
	}
	return nil
}

func (r *ContactRepo) List(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	tx := r.db.WithContext(ctx).Order("submitted_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	messages := []*models.ContactMessage{}
	if err := tx.Find(&messages).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "contact messages", err)
	}
	return messages, nil
}
