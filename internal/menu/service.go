package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
)

type itemRepository interface {
	ListByVendor(ctx context.Context, vendorID uuid.UUID, availableOnly bool) ([]models.MenuItem, error)
	FindForVendor(ctx context.Context, vendorID, id uuid.UUID) (*models.MenuItem, error)
	Create(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, vendorID, id uuid.UUID) (bool, error)
}

type vendorLookup interface {
	FindByClerkUserID(ctx context.Context, userID string) (*models.Vendor, error)
}

// Service exposes menu item CRUD scoped to the calling vendor.
type Service interface {
	List(ctx context.Context, userID string) ([]ItemDTO, error)
	Create(ctx context.Context, userID string, input CreateItemInput) (*ItemDTO, error)
	Update(ctx context.Context, userID string, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, userID string, itemID uuid.UUID) error
}

type service struct {
	repo    itemRepository
	vendors vendorLookup
}

// NewService builds a menu service with the provided repositories.
func NewService(repo itemRepository, vendors vendorLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor lookup required")
	}
	return &service{repo: repo, vendors: vendors}, nil
}

func (s *service) List(ctx context.Context, userID string) ([]ItemDTO, error) {
	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByVendor(ctx, vendor.ID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	return FromModels(items), nil
}

func (s *service) Create(ctx context.Context, userID string, input CreateItemInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or more")
	}

	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		VendorID:    vendor.ID,
		Name:        name,
		Description: normalizeDescription(input.Description),
		Price:       input.Price.Round(2),
		IsAvailable: true,
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}
	dto := FromModel(item)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID string, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindForVendor(ctx, vendor.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		item.Name = name
	}
	if input.Description != nil {
		item.Description = normalizeDescription(input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or more")
		}
		item.Price = input.Price.Round(2)
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	dto := FromModel(item)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID string, itemID uuid.UUID) error {
	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, vendor.ID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return nil
}

func (s *service) vendor(ctx context.Context, userID string) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByClerkUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

// normalizeDescription stores blank descriptions as NULL.
func normalizeDescription(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ParsePrice accepts a JSON number or numeric string.
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price is required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be a number")
	}
	return price, nil
}
