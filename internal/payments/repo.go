package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/internal/repo"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// Repository handles payment persistence.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, payment *models.Payment) error {
	if payment == nil {
		return fmt.Errorf("payment is required")
	}
	return r.DB(ctx).Create(payment).Error
}

// SetOrderID records the gateway order id on a payment.
func (r *Repository) SetOrderID(ctx context.Context, id uuid.UUID, orderID string) error {
	res := r.DB(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Update("paymob_order_id", orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindPendingByOrderID never matches a payment that already reached a
// terminal status.
func (r *Repository) FindPendingByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB(ctx).
		Where("paymob_order_id = ? AND status = ?", orderID, enums.PaymentStatusPending).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkFailed moves a PENDING payment to FAILED and reports whether it did.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	res := r.DB(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, enums.PaymentStatusPending).
		Updates(map[string]any{
			"status":         enums.PaymentStatusFailed,
			"failure_reason": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkSucceededWithTx moves a PENDING payment to SUCCESS inside tx.
func (r *Repository) MarkSucceededWithTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, transactionID *string) (bool, error) {
	if tx == nil {
		return false, gorm.ErrInvalidTransaction
	}
	res := r.Conn(ctx, tx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, enums.PaymentStatusPending).
		Updates(map[string]any{
			"status":                enums.PaymentStatusSuccess,
			"paymob_transaction_id": transactionID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListByVendor returns a vendor's payments newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Payment, error) {
	var rows []models.Payment
	if err := r.DB(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReapStale fails every PENDING payment created before cutoff.
func (r *Repository) ReapStale(ctx context.Context, cutoff time.Time, reason string) (int64, error) {
	res := r.DB(ctx).Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", enums.PaymentStatusPending, cutoff).
		Updates(map[string]any{
			"status":         enums.PaymentStatusFailed,
			"failure_reason": reason,
		})
	return res.RowsAffected, res.Error
}
