package menu

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
)

// Repository handles menu item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to menu item operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByVendor returns the vendor's items ordered by name.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, availableOnly bool) ([]models.MenuItem, error) {
	q := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID)
	if availableOnly {
		q = q.Where("is_available = ?", true)
	}
	var items []models.MenuItem
	if err := q.Order("name ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindForVendor loads an item only when it belongs to vendorID.
func (r *Repository) FindForVendor(ctx context.Context, vendorID, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) Create(ctx context.Context, item *models.MenuItem) error {
	if item == nil {
		return fmt.Errorf("menu item is required")
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) Update(ctx context.Context, item *models.MenuItem) error {
	if item == nil {
		return fmt.Errorf("menu item is required")
	}
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes the item scoped to vendorID and reports whether a row went away.
func (r *Repository) Delete(ctx context.Context, vendorID, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Delete(&models.MenuItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByVendor returns how many items the vendor has.
func (r *Repository) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("vendor_id = ?", vendorID).Count(&count).Error
	return count, err
}
