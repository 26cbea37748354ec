package payments

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
	"github.com/mintalist/mintalist-backend/pkg/metrics"
	"github.com/mintalist/mintalist-backend/pkg/paymob"
)

const (
	DefaultCurrency = "EGP"

	billingEmail         = "vendor@mintalist.com"
	billingPhoneFallback = "0000000000"
	billingFirstFallback = "Vendor"
	billingLastFallback  = "Mintalist"

	reasonExpired = "expired"
)

// Callback failure reasons, surfaced to the browser as ?error=<reason>.
const (
	ReasonHMACInvalid     = "hmac_invalid"
	ReasonMissingParams   = "missing_params"
	ReasonPaymentNotFound = "payment_not_found"
	ReasonPaymentFailed   = "payment_failed"
	ReasonServerError     = "server_error"
)

var errPaymentGone = errors.New("payment no longer pending")

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	SetOrderID(ctx context.Context, id uuid.UUID, orderID string) error
	FindPendingByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	MarkSucceededWithTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, transactionID *string) (bool, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Payment, error)
	ReapStale(ctx context.Context, cutoff time.Time, reason string) (int64, error)
}

type vendorStore interface {
	FindByClerkUserID(ctx context.Context, userID string) (*models.Vendor, error)
	SetTierWithTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, t enums.Tier) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type pageInvalidator interface {
	ForgetVendor(id uuid.UUID)
}

// Gateway is the subset of the Paymob client used for hosted checkout.
type Gateway interface {
	AuthToken(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, token string, req paymob.OrderRequest) (int64, error)
	PaymentKey(ctx context.Context, token string, req paymob.PaymentKeyRequest) (string, error)
	RedirectURL(paymentKey string) string
}

// CallbackOutcome is the result of processing a gateway redirect.
type CallbackOutcome struct {
	Success bool
	Reason  string
}

// RedirectURL is the dashboard page the browser lands on afterwards.
func (o CallbackOutcome) RedirectURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/") + "/dashboard/settings"
	if o.Success {
		return base + "?upgrade=success"
	}
	return base + "?error=" + url.QueryEscape(o.Reason)
}

// Service runs the upgrade checkout lifecycle.
type Service interface {
	StartCheckout(ctx context.Context, userID string, input CheckoutInput) (*CheckoutResult, error)
	HandleCallback(ctx context.Context, params url.Values) CallbackOutcome
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]PaymentDTO, error)
	ReapStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ServiceParams groups the payment service dependencies.
type ServiceParams struct {
	Repo       paymentRepository
	Vendors    vendorStore
	Tx         txRunner
	Gateway    Gateway
	HMACSecret string
	Currency   string
	Prices     PriceOverrides
	Pages      pageInvalidator
	Metrics    *metrics.BusinessMetrics
	Logger     *logger.Logger
	Now        func() time.Time
}

type service struct {
	repo       paymentRepository
	vendors    vendorStore
	tx         txRunner
	gateway    Gateway
	hmacSecret string
	currency   string
	prices     PriceOverrides
	pages      pageInvalidator
	metrics    *metrics.BusinessMetrics
	logg       *logger.Logger
	now        func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if params.Vendors == nil {
		return nil, fmt.Errorf("vendor store required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	currency := strings.TrimSpace(params.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		vendors:    params.Vendors,
		tx:         params.Tx,
		gateway:    params.Gateway,
		hmacSecret: strings.TrimSpace(params.HMACSecret),
		currency:   currency,
		prices:     params.Prices,
		pages:      params.Pages,
		metrics:    params.Metrics,
		logg:       params.Logger,
		now:        now,
	}, nil
}

func (s *service) StartCheckout(ctx context.Context, userID string, input CheckoutInput) (*CheckoutResult, error) {
	period := input.Period
	if period == "" {
		period = enums.BillingPeriodMonthly
	}
	amount, err := AmountCents(input.Tier, period, s.prices)
	if err != nil {
		return nil, err
	}

	vendor, err := s.vendors.FindByClerkUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	if s.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "payment gateway not configured")
	}

	payment := &models.Payment{
		VendorID:    vendor.ID,
		Tier:        input.Tier,
		Period:      period,
		AmountCents: amount,
		Currency:    s.currency,
		Status:      enums.PaymentStatusPending,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"vendor_id":  vendor.ID.String(),
		"payment_id": payment.ID.String(),
		"tier":       payment.Tier,
		"period":     payment.Period,
	})

	redirectURL, err := s.openGatewaySession(ctx, vendor, payment)
	if err != nil {
		if _, markErr := s.repo.MarkFailed(ctx, payment.ID, truncateReason(err.Error())); markErr != nil {
			s.logg.Error(ctx, "payment.checkout.mark_failed", markErr)
		}
		s.metrics.IncPayment(metrics.PaymentOutcomeCheckoutFailed)
		s.logg.Error(ctx, "payment.checkout.failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "payment gateway unavailable")
	}

	s.metrics.IncPayment(metrics.PaymentOutcomeCheckoutStarted)
	s.logg.Info(ctx, "payment.checkout.started")
	return &CheckoutResult{RedirectURL: redirectURL, PaymentID: payment.ID}, nil
}

func (s *service) openGatewaySession(ctx context.Context, vendor *models.Vendor, payment *models.Payment) (string, error) {
	token, err := s.gateway.AuthToken(ctx)
	if err != nil {
		return "", err
	}
	orderID, err := s.gateway.CreateOrder(ctx, token, paymob.OrderRequest{
		AmountCents:     payment.AmountCents,
		Currency:        payment.Currency,
		MerchantOrderID: payment.ID.String(),
	})
	if err != nil {
		return "", err
	}
	if err := s.repo.SetOrderID(ctx, payment.ID, paymob.FormatOrderID(orderID)); err != nil {
		return "", fmt.Errorf("persist order id: %w", err)
	}
	key, err := s.gateway.PaymentKey(ctx, token, paymob.PaymentKeyRequest{
		AmountCents: payment.AmountCents,
		Currency:    payment.Currency,
		OrderID:     orderID,
		Billing:     BillingFor(vendor),
	})
	if err != nil {
		return "", err
	}
	return s.gateway.RedirectURL(key), nil
}

func (s *service) HandleCallback(ctx context.Context, params url.Values) CallbackOutcome {
	if s.hmacSecret != "" && strings.TrimSpace(params.Get("hmac")) != "" {
		if !paymob.VerifyCallback(params, s.hmacSecret) {
			s.metrics.IncPayment(metrics.PaymentOutcomeRejected)
			s.logg.Warn(ctx, "payment.callback.hmac_invalid")
			return CallbackOutcome{Reason: ReasonHMACInvalid}
		}
	}

	orderID := firstParam(params, "order", "order_id", "id")
	if orderID == "" {
		return CallbackOutcome{Reason: ReasonMissingParams}
	}
	success := params.Get("success")
	isSuccess := success == "true" || success == "1"

	ctx = s.logg.WithField(ctx, "paymob_order_id", orderID)
	payment, err := s.repo.FindPendingByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, "payment.callback.not_found")
			return CallbackOutcome{Reason: ReasonPaymentNotFound}
		}
		s.logg.Error(ctx, "payment.callback.lookup_failed", err)
		return CallbackOutcome{Reason: ReasonServerError}
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"payment_id": payment.ID.String(),
		"vendor_id":  payment.VendorID.String(),
	})

	if !isSuccess {
		updated, err := s.repo.MarkFailed(ctx, payment.ID, ReasonPaymentFailed)
		if err != nil {
			s.logg.Error(ctx, "payment.callback.mark_failed", err)
			return CallbackOutcome{Reason: ReasonServerError}
		}
		if !updated {
			return CallbackOutcome{Reason: ReasonPaymentNotFound}
		}
		s.metrics.IncPayment(metrics.PaymentOutcomeFailed)
		s.logg.Info(ctx, "payment.failed")
		return CallbackOutcome{Reason: ReasonPaymentFailed}
	}

	transactionID := transactionIDFrom(params)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		updated, err := s.repo.MarkSucceededWithTx(ctx, tx, payment.ID, transactionID)
		if err != nil {
			return err
		}
		if !updated {
			return errPaymentGone
		}
		return s.vendors.SetTierWithTx(ctx, tx, payment.VendorID, payment.Tier)
	})
	if err != nil {
		if errors.Is(err, errPaymentGone) {
			return CallbackOutcome{Reason: ReasonPaymentNotFound}
		}
		s.logg.Error(ctx, "payment.callback.apply_failed", err)
		return CallbackOutcome{Reason: ReasonServerError}
	}

	if s.pages != nil {
		s.pages.ForgetVendor(payment.VendorID)
	}
	s.metrics.IncPayment(metrics.PaymentOutcomeSucceeded)
	s.logg.Info(ctx, "payment.succeeded")
	return CallbackOutcome{Success: true}
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]PaymentDTO, error) {
	rows, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return FromModels(rows), nil
}

func (s *service) ReapStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "olderThan must be positive")
	}
	cutoff := s.now().UTC().Add(-olderThan)
	n, err := s.repo.ReapStale(ctx, cutoff, reasonExpired)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reap stale payments")
	}
	s.metrics.AddPayments(metrics.PaymentOutcomeExpired, int(n))
	return n, nil
}

// BillingFor builds the gateway billing block from the vendor profile.
func BillingFor(vendor *models.Vendor) paymob.BillingData {
	billing := paymob.BillingData{
		FirstName:   billingFirstFallback,
		LastName:    billingLastFallback,
		Email:       billingEmail,
		PhoneNumber: billingPhoneFallback,
	}
	parts := strings.Fields(vendor.Name)
	if len(parts) > 0 {
		billing.FirstName = parts[0]
	}
	if len(parts) > 1 {
		billing.LastName = strings.Join(parts[1:], " ")
	}
	if vendor.Phone != nil && strings.TrimSpace(*vendor.Phone) != "" {
		billing.PhoneNumber = strings.TrimSpace(*vendor.Phone)
	}
	return billing
}

// transactionIDFrom prefers txn_id; id is a transaction id only when the
// order travels in its own parameter.
func transactionIDFrom(params url.Values) *string {
	if v := strings.TrimSpace(params.Get("txn_id")); v != "" {
		return &v
	}
	if strings.TrimSpace(params.Get("order")) != "" {
		if v := strings.TrimSpace(params.Get("id")); v != "" {
			return &v
		}
	}
	return nil
}

func firstParam(params url.Values, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(params.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

func truncateReason(reason string) string {
	const maxLen = 500
	if len(reason) > maxLen {
		return reason[:maxLen]
	}
	return reason
}
