package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// CheckoutInput is the body of a checkout request.
type CheckoutInput struct {
	Tier   enums.Tier          `json:"tier" validate:"required,oneof=PAID_1 PAID_2"`
	Period enums.BillingPeriod `json:"period,omitempty" validate:"omitempty,oneof=MONTHLY ANNUAL"`
}

// CheckoutResult tells the browser where to continue payment.
type CheckoutResult struct {
	RedirectURL string    `json:"redirectUrl"`
	PaymentID   uuid.UUID `json:"paymentId"`
}

// PaymentDTO is the Hub view of a payment.
type PaymentDTO struct {
	ID                  uuid.UUID           `json:"id"`
	VendorID            uuid.UUID           `json:"vendorId"`
	Tier                enums.Tier          `json:"tier"`
	Period              enums.BillingPeriod `json:"period"`
	AmountCents         int64               `json:"amountCents"`
	Currency            string              `json:"currency"`
	Status              enums.PaymentStatus `json:"status"`
	PaymobOrderID       *string             `json:"paymobOrderId,omitempty"`
	PaymobTransactionID *string             `json:"paymobTransactionId,omitempty"`
	FailureReason       *string             `json:"failureReason,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

func FromModel(p *models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:                  p.ID,
		VendorID:            p.VendorID,
		Tier:                p.Tier,
		Period:              p.Period,
		AmountCents:         p.AmountCents,
		Currency:            p.Currency,
		Status:              p.Status,
		PaymobOrderID:       p.PaymobOrderID,
		PaymobTransactionID: p.PaymobTransactionID,
		FailureReason:       p.FailureReason,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func FromModels(rows []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
