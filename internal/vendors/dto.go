package vendors

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mintalist/mintalist-backend/internal/links"
	"github.com/mintalist/mintalist-backend/internal/menu"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	"github.com/mintalist/mintalist-backend/pkg/tier"
)

// VendorDTO exposes the vendor profile to its owner and to the hub.
type VendorDTO struct {
	ID                 uuid.UUID             `json:"id"`
	ClerkUserID        string                `json:"clerkUserId"`
	Name               string                `json:"name"`
	Slug               string                `json:"slug"`
	Tier               enums.Tier            `json:"tier"`
	BrandColor         *string               `json:"brandColor"`
	LogoURL            *string               `json:"logoUrl"`
	BackgroundImageURL *string               `json:"backgroundImageUrl"`
	Address            *string               `json:"address"`
	Phone              *string               `json:"phone"`
	LocationName       *string               `json:"locationName"`
	Latitude           *float64              `json:"latitude"`
	Longitude          *float64              `json:"longitude"`
	PlanPreference     *enums.PlanPreference `json:"planPreference"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// MeDTO is the dashboard view of the calling vendor.
type MeDTO struct {
	VendorDTO
	MenuItems    []menu.ItemDTO        `json:"menuItems"`
	SocialLinks  []links.SocialLinkDTO `json:"socialLinks"`
	CustomLinks  []links.CustomLinkDTO `json:"customLinks"`
	Capabilities tier.Summary          `json:"capabilities"`
	PublicURL    string                `json:"publicUrl"`
}

// PublicPageDTO is what anonymous visitors of a vendor page receive.
type PublicPageDTO struct {
	Name               string                `json:"name"`
	Slug               string                `json:"slug"`
	Tier               enums.Tier            `json:"tier"`
	BrandColor         *string               `json:"brandColor"`
	LogoURL            *string               `json:"logoUrl"`
	BackgroundImageURL *string               `json:"backgroundImageUrl"`
	Address            *string               `json:"address"`
	Phone              *string               `json:"phone"`
	LocationName       *string               `json:"locationName"`
	Latitude           *float64              `json:"latitude"`
	Longitude          *float64              `json:"longitude"`
	MenuItems          []menu.ItemDTO        `json:"menuItems"`
	SocialLinks        []links.SocialLinkDTO `json:"socialLinks"`
	CustomLinks        []links.CustomLinkDTO `json:"customLinks"`
	ShowAds            bool                  `json:"showAds"`
	PublicURL          string                `json:"publicUrl"`
}

// OnboardingInput carries the optional onboarding wizard fields.
type OnboardingInput struct {
	Name           *string
	BrandColor     *string
	LogoURL        *string
	LocationName   *string
	Address        *string
	Phone          *string
	Latitude       *float64
	Longitude      *float64
	PlanPreference *enums.PlanPreference
}

// OnboardingResult reports the vendor id only when onboarding created it.
type OnboardingResult struct {
	OK       bool       `json:"ok"`
	VendorID *uuid.UUID `json:"vendorId,omitempty"`
}

// UpdateProfileInput holds profile changes; nil leaves a field untouched and
// an empty string clears an optional text field.
type UpdateProfileInput struct {
	Name               *string
	Slug               *string
	BrandColor         *string
	LogoURL            *string
	BackgroundImageURL *string
	Address            *string
	Phone              *string
	LocationName       *string
	Latitude           NullableFloat
	Longitude          NullableFloat
}

// DowngradeResult is returned after moving back to the free tier.
type DowngradeResult struct {
	OK   bool       `json:"ok"`
	Tier enums.Tier `json:"tier"`
	Slug string     `json:"slug"`
}

// NullableFloat distinguishes an absent JSON field from an explicit null.
type NullableFloat struct {
	Set   bool
	Value *float64
}

// UnmarshalJSON marks the field as present; null clears the value.
func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// FromModel maps the persisted vendor into a DTO.
func FromModel(m *models.Vendor) *VendorDTO {
	if m == nil {
		return nil
	}
	return &VendorDTO{
		ID:                 m.ID,
		ClerkUserID:        m.ClerkUserID,
		Name:               m.Name,
		Slug:               m.Slug,
		Tier:               m.Tier,
		BrandColor:         m.BrandColor,
		LogoURL:            m.LogoURL,
		BackgroundImageURL: m.BackgroundImageURL,
		Address:            m.Address,
		Phone:              m.Phone,
		LocationName:       m.LocationName,
		Latitude:           m.Latitude,
		Longitude:          m.Longitude,
		PlanPreference:     m.PlanPreference,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
