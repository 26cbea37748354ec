package hub

import (
	"github.com/mintalist/mintalist-backend/internal/payments"
	"github.com/mintalist/mintalist-backend/internal/vendors"
	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// VendorSummaryDTO is one row of the Hub vendor list.
type VendorSummaryDTO struct {
	vendors.VendorDTO
	MenuItemCount int64 `json:"menuItemCount"`
}

// VendorDetailDTO is the Hub vendor page.
type VendorDetailDTO struct {
	Vendor   vendors.VendorDTO     `json:"vendor"`
	Payments []payments.PaymentDTO `json:"payments"`
}

// SetTierInput is the body of a Hub tier change.
type SetTierInput struct {
	Tier enums.Tier `json:"tier" validate:"required,oneof=FREE PAID_1 PAID_2"`
}
