package links

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// Repository handles social and custom link persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to link operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListSocial returns the vendor's social links ordered by platform.
func (r *Repository) ListSocial(ctx context.Context, vendorID uuid.UUID) ([]models.SocialLink, error) {
	var rows []models.SocialLink
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("platform ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCustom returns the vendor's custom links ordered by title.
func (r *Repository) ListCustom(ctx context.Context, vendorID uuid.UUID) ([]models.CustomLink, error) {
	var rows []models.CustomLink
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("title ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindSocial(ctx context.Context, vendorID, id uuid.UUID) (*models.SocialLink, error) {
	var link models.SocialLink
	if err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *Repository) FindSocialByPlatform(ctx context.Context, vendorID uuid.UUID, platform enums.SocialPlatform) (*models.SocialLink, error) {
	var link models.SocialLink
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND platform = ?", vendorID, platform).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *Repository) FindCustom(ctx context.Context, vendorID, id uuid.UUID) (*models.CustomLink, error) {
	var link models.CustomLink
	if err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *Repository) CreateSocial(ctx context.Context, link *models.SocialLink) error {
	if link == nil {
		return fmt.Errorf("social link is required")
	}
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *Repository) SaveSocial(ctx context.Context, link *models.SocialLink) error {
	if link == nil {
		return fmt.Errorf("social link is required")
	}
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *Repository) CreateCustom(ctx context.Context, link *models.CustomLink) error {
	if link == nil {
		return fmt.Errorf("custom link is required")
	}
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *Repository) SaveCustom(ctx context.Context, link *models.CustomLink) error {
	if link == nil {
		return fmt.Errorf("custom link is required")
	}
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *Repository) DeleteSocial(ctx context.Context, vendorID, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND vendor_id = ?", id, vendorID).Delete(&models.SocialLink{})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) DeleteCustom(ctx context.Context, vendorID, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND vendor_id = ?", id, vendorID).Delete(&models.CustomLink{})
	return res.RowsAffected > 0, res.Error
}
