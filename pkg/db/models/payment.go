package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// Payment tracks one hosted-checkout attempt for a tier upgrade.
type Payment struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	VendorID            uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index"`
	Tier                enums.Tier          `gorm:"column:tier;type:text;not null"`
	Period              enums.BillingPeriod `gorm:"column:period;type:text;not null;default:'MONTHLY'"`
	AmountCents         int64               `gorm:"column:amount_cents;not null"`
	Currency            string              `gorm:"column:currency;not null;default:'EGP'"`
	Status              enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	PaymobOrderID       *string             `gorm:"column:paymob_order_id;index"`
	PaymobTransactionID *string             `gorm:"column:paymob_transaction_id"`
	FailureReason       *string             `gorm:"column:failure_reason"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
