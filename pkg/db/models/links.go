package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// SocialLink holds at most one URL per platform per vendor.
type SocialLink struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	VendorID  uuid.UUID            `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:social_links_vendor_platform_key"`
	Platform  enums.SocialPlatform `gorm:"column:platform;type:text;not null;uniqueIndex:social_links_vendor_platform_key"`
	URL       string               `gorm:"column:url;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *SocialLink) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// CustomLink is a free-form titled link.
type CustomLink struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VendorID  uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	Title     string    `gorm:"column:title;not null"`
	URL       string    `gorm:"column:url;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *CustomLink) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
