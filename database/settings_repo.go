package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db}
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("setting " + key)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get", "setting", err)
	}
	return &s, nil
}

// Put inserts or overwrites the setting.
func (r *SettingsRepo) Put(ctx context.Context, s *models.Setting) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(s).Error
	if err != nil {
		return errs.NewDatabaseError("save", "setting", err)
	}
	return nil
}
