package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// Vendor is the tenant root: one per identity-provider user.
type Vendor struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	ClerkUserID        string                `gorm:"column:clerk_user_id;not null;uniqueIndex"`
	Name               string                `gorm:"column:name;not null"`
	Slug               string                `gorm:"column:slug;not null;uniqueIndex"`
	Tier               enums.Tier            `gorm:"column:tier;type:text;not null;default:'FREE'"`
	BrandColor         *string               `gorm:"column:brand_color"`
	LogoURL            *string               `gorm:"column:logo_url"`
	BackgroundImageURL *string               `gorm:"column:background_image_url"`
	Address            *string               `gorm:"column:address"`
	Phone              *string               `gorm:"column:phone"`
	LocationName       *string               `gorm:"column:location_name"`
	Latitude           *float64              `gorm:"column:latitude"`
	Longitude          *float64              `gorm:"column:longitude"`
	PlanPreference     *enums.PlanPreference `gorm:"column:plan_preference;type:text"`
	MenuItems          []MenuItem            `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	SocialLinks        []SocialLink          `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	CustomLinks        []CustomLink          `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *Vendor) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
