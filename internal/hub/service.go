package hub

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/internal/payments"
	"github.com/mintalist/mintalist-backend/internal/vendors"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
	"github.com/mintalist/mintalist-backend/pkg/pagination"
	"github.com/mintalist/mintalist-backend/pkg/types"
)

type vendorDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	ListWithMenuCounts(ctx context.Context, params pagination.Params) ([]vendors.ListRow, string, error)
	SetTier(ctx context.Context, id uuid.UUID, t enums.Tier) error
}

type paymentLister interface {
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]payments.PaymentDTO, error)
}

// Service backs the Hub vendor pages.
type Service interface {
	ListVendors(ctx context.Context, params pagination.Params) (*types.Page[VendorSummaryDTO], error)
	GetVendor(ctx context.Context, id uuid.UUID) (*VendorDetailDTO, error)
	SetVendorTier(ctx context.Context, id uuid.UUID, t enums.Tier) (*vendors.VendorDTO, error)
}

type service struct {
	vendors  vendorDirectory
	payments paymentLister
	pages    vendors.PageInvalidator
	logg     *logger.Logger
}

// NewService builds the hub service. pages may be nil when no public page
// cache is running.
func NewService(vendorRepo vendorDirectory, paymentSvc paymentLister, pages vendors.PageInvalidator, logg *logger.Logger) (Service, error) {
	if vendorRepo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if paymentSvc == nil {
		return nil, fmt.Errorf("payment service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{vendors: vendorRepo, payments: paymentSvc, pages: pages, logg: logg}, nil
}

func (s *service) ListVendors(ctx context.Context, params pagination.Params) (*types.Page[VendorSummaryDTO], error) {
	rows, next, err := s.vendors.ListWithMenuCounts(ctx, params)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	items := make([]VendorSummaryDTO, 0, len(rows))
	for i := range rows {
		items = append(items, VendorSummaryDTO{
			VendorDTO:     *vendors.FromModel(&rows[i].Vendor),
			MenuItemCount: rows[i].MenuItemCount,
		})
	}
	return &types.Page[VendorSummaryDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) GetVendor(ctx context.Context, id uuid.UUID) (*VendorDetailDTO, error) {
	vendor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.payments.ListByVendor(ctx, vendor.ID)
	if err != nil {
		return nil, err
	}
	return &VendorDetailDTO{Vendor: *vendors.FromModel(vendor), Payments: history}, nil
}

func (s *service) SetVendorTier(ctx context.Context, id uuid.UUID, t enums.Tier) (*vendors.VendorDTO, error) {
	if !t.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier must be FREE, PAID_1, or PAID_2")
	}
	if err := s.vendors.SetTier(ctx, id, t); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set vendor tier")
	}
	if s.pages != nil {
		s.pages.ForgetVendor(id)
	}
	vendor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"vendor_id": id.String(), "tier": t})
	s.logg.Info(ctx, "hub.vendor.tier_set")
	return vendors.FromModel(vendor), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}
