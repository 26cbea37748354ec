package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// ContactRequest is an append-only sales lead.
type ContactRequest struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	VendorID    uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index"`
	VendorName  string              `gorm:"column:vendor_name;not null"`
	VendorEmail string              `gorm:"column:vendor_email;not null"`
	VendorPhone *string             `gorm:"column:vendor_phone"`
	Source      enums.ContactSource `gorm:"column:source;type:text;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (c *ContactRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// VendorVisit records a field sales visit logged from the hub.
type VendorVisit struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeName  string      `gorm:"column:employee_name;not null"`
	EmployeeEmail *string     `gorm:"column:employee_email"`
	BusinessName  string      `gorm:"column:business_name;not null"`
	ContactName   *string     `gorm:"column:contact_name"`
	ContactPhone  *string     `gorm:"column:contact_phone"`
	ContactEmail  *string     `gorm:"column:contact_email"`
	Address       *string     `gorm:"column:address"`
	LocationName  *string     `gorm:"column:location_name"`
	AgreedTier    *enums.Tier `gorm:"column:agreed_tier;type:text"`
	Notes         *string     `gorm:"column:notes"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (v *VendorVisit) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

// AdClick counts a click on the "get your own menu" ad of a free page.
type AdClick struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VendorSlug *string   `gorm:"column:vendor_slug"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (a *AdClick) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
