package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// Voucher is a single-use code that upgrades a vendor without payment.
type Voucher struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Code               string     `gorm:"column:code;not null;uniqueIndex"`
	Tier               enums.Tier `gorm:"column:tier;type:text;not null"`
	ExpiresAt          *time.Time `gorm:"column:expires_at"`
	RedeemedAt         *time.Time `gorm:"column:redeemed_at"`
	RedeemedByVendorID *uuid.UUID `gorm:"column:redeemed_by_vendor_id;type:uuid"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (v *Voucher) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

// IsExpired reports whether the voucher expired strictly before now.
func (v Voucher) IsExpired(now time.Time) bool {
	return v.ExpiresAt != nil && v.ExpiresAt.Before(now)
}
