package vouchers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/internal/repo"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
)

// Repository handles voucher persistence.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.DB(ctx).Where("code = ?", code).First(&voucher).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *Repository) Create(ctx context.Context, voucher *models.Voucher) error {
	if voucher == nil {
		return fmt.Errorf("voucher is required")
	}
	return r.DB(ctx).Create(voucher).Error
}

// MarkRedeemedWithTx claims an unredeemed voucher for vendorID. It reports
// false when another redemption got there first.
func (r *Repository) MarkRedeemedWithTx(ctx context.Context, tx *gorm.DB, id, vendorID uuid.UUID, at time.Time) (bool, error) {
	if tx == nil {
		return false, gorm.ErrInvalidTransaction
	}
	res := r.Conn(ctx, tx).Model(&models.Voucher{}).
		Where("id = ? AND redeemed_at IS NULL", id).
		Updates(map[string]any{
			"redeemed_at":           at,
			"redeemed_by_vendor_id": vendorID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListExpiredUnredeemed returns vouchers whose expiry passed before now
// without being redeemed, oldest expiry first.
func (r *Repository) ListExpiredUnredeemed(ctx context.Context, now time.Time) ([]models.Voucher, error) {
	var rows []models.Voucher
	if err := r.DB(ctx).
		Where("redeemed_at IS NULL AND expires_at IS NOT NULL AND expires_at < ?", now).
		Order("expires_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
