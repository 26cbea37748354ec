package vouchers

import (
	"time"

	"github.com/google/uuid"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
)

type VoucherDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	Tier               enums.Tier `json:"tier"`
	ExpiresAt          *time.Time `json:"expiresAt"`
	RedeemedAt         *time.Time `json:"redeemedAt,omitempty"`
	RedeemedByVendorID *uuid.UUID `json:"redeemedByVendorId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// RedeemResult is returned to the vendor after a successful redemption.
type RedeemResult struct {
	OK      bool       `json:"ok"`
	Tier    enums.Tier `json:"tier"`
	Message string     `json:"message"`
}

// CreateInput describes a voucher issued from the hub or the CLI.
type CreateInput struct {
	Code          string
	Tier          enums.Tier
	ExpiresInDays *int
}

func FromModel(m *models.Voucher) VoucherDTO {
	return VoucherDTO{
		ID:                 m.ID,
		Code:               m.Code,
		Tier:               m.Tier,
		ExpiresAt:          m.ExpiresAt,
		RedeemedAt:         m.RedeemedAt,
		RedeemedByVendorID: m.RedeemedByVendorID,
		CreatedAt:          m.CreatedAt,
	}
}
