package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
)

// ItemDTO is the API shape of a menu item.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendorId"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateItemInput holds the fields accepted when adding an item.
type CreateItemInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	IsAvailable *bool
}

// UpdateItemInput holds optional item changes; nil leaves a field untouched.
type UpdateItemInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	IsAvailable *bool
}

// FromModel maps the persisted item into a DTO.
func FromModel(m *models.MenuItem) ItemDTO {
	return ItemDTO{
		ID:          m.ID,
		VendorID:    m.VendorID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price.Round(2),
		IsAvailable: m.IsAvailable,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps a slice of items, preserving order.
func FromModels(items []models.MenuItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, FromModel(&items[i]))
	}
	return out
}
