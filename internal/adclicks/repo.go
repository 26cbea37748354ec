package adclicks

import (
	"context"

	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, click *models.AdClick) error {
	return r.db.WithContext(ctx).Create(click).Error
}

// ListLatest returns up to limit clicks, newest first.
func (r *Repository) ListLatest(ctx context.Context, limit int) ([]models.AdClick, error) {
	var rows []models.AdClick
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
