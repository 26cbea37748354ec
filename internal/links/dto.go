package links

import (
	"time"

	"github.com/google/uuid"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
)

const (
	TypeSocial = "social"
	TypeCustom = "custom"
)

type SocialLinkDTO struct {
	ID        uuid.UUID            `json:"id"`
	VendorID  uuid.UUID            `json:"vendorId"`
	Platform  enums.SocialPlatform `json:"platform"`
	URL       string               `json:"url"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type CustomLinkDTO struct {
	ID        uuid.UUID `json:"id"`
	VendorID  uuid.UUID `json:"vendorId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListDTO groups both link kinds as returned by the links endpoint.
type ListDTO struct {
	SocialLinks []SocialLinkDTO `json:"socialLinks"`
	CustomLinks []CustomLinkDTO `json:"customLinks"`
}

// CreateLinkInput is discriminated by Type: social links need Platform,
// custom links need Title.
type CreateLinkInput struct {
	Type     string
	Platform enums.SocialPlatform
	Title    string
	URL      string
}

// UpdateLinkInput holds optional link changes; nil leaves a field untouched.
type UpdateLinkInput struct {
	Platform *enums.SocialPlatform
	Title    *string
	URL      *string
}

func SocialFromModel(m *models.SocialLink) SocialLinkDTO {
	return SocialLinkDTO{
		ID:        m.ID,
		VendorID:  m.VendorID,
		Platform:  m.Platform,
		URL:       m.URL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func CustomFromModel(m *models.CustomLink) CustomLinkDTO {
	return CustomLinkDTO{
		ID:        m.ID,
		VendorID:  m.VendorID,
		Title:     m.Title,
		URL:       m.URL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func SocialFromModels(rows []models.SocialLink) []SocialLinkDTO {
	out := make([]SocialLinkDTO, 0, len(rows))
	for i := range rows {
		out = append(out, SocialFromModel(&rows[i]))
	}
	return out
}

func CustomFromModels(rows []models.CustomLink) []CustomLinkDTO {
	out := make([]CustomLinkDTO, 0, len(rows))
	for i := range rows {
		out = append(out, CustomFromModel(&rows[i]))
	}
	return out
}
