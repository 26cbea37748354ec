package vouchers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
	"github.com/mintalist/mintalist-backend/pkg/metrics"
)

const (
	MaxExpiresInDays = 3650
	maxCodeLength    = 64
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

var errAlreadyRedeemed = errors.New("voucher already redeemed")

type voucherRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Voucher, error)
	Create(ctx context.Context, voucher *models.Voucher) error
	MarkRedeemedWithTx(ctx context.Context, tx *gorm.DB, id, vendorID uuid.UUID, at time.Time) (bool, error)
	ListExpiredUnredeemed(ctx context.Context, now time.Time) ([]models.Voucher, error)
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

// Service redeems and issues upgrade vouchers.
type Service interface {
	Redeem(ctx context.Context, userID, code string) (*RedeemResult, error)
	Create(ctx context.Context, input CreateInput) (*VoucherDTO, error)
	ExpiredUnredeemed(ctx context.Context, now time.Time) ([]VoucherDTO, error)
}

// ServiceParams groups the voucher service dependencies.
type ServiceParams struct {
	Repo    voucherRepository
	Vendors vendorStore
	Tx      txRunner
	Pages   pageInvalidator
	Metrics *metrics.BusinessMetrics
	Logger  *logger.Logger
	Now     func() time.Time
}

type service struct {
	repo    voucherRepository
	vendors vendorStore
	tx      txRunner
	pages   pageInvalidator
	metrics *metrics.BusinessMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("voucher repository required")
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
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		vendors: params.Vendors,
		tx:      params.Tx,
		pages:   params.Pages,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     now,
	}, nil
}

func (s *service) Redeem(ctx context.Context, userID, raw string) (*RedeemResult, error) {
	code := NormalizeCode(raw)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	vendor, err := s.vendors.FindByClerkUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	voucher, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid or unknown voucher code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
	}
	if voucher.RedeemedAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "this voucher has already been redeemed")
	}
	now := s.now().UTC()
	if voucher.IsExpired(now) {
		return nil, pkgerrors.New(pkgerrors.CodeGone, "this voucher has expired")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		claimed, err := s.repo.MarkRedeemedWithTx(ctx, tx, voucher.ID, vendor.ID, now)
		if err != nil {
			return err
		}
		if !claimed {
			return errAlreadyRedeemed
		}
		return s.vendors.SetTierWithTx(ctx, tx, vendor.ID, voucher.Tier)
	})
	if err != nil {
		if errors.Is(err, errAlreadyRedeemed) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this voucher has already been redeemed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem voucher")
	}

	if s.pages != nil {
		s.pages.ForgetVendor(vendor.ID)
	}
	s.metrics.IncVoucherRedeemed(voucher.Tier.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"vendor_id":  vendor.ID.String(),
		"voucher_id": voucher.ID.String(),
		"tier":       voucher.Tier,
	})
	s.logg.Info(ctx, "voucher.redeemed")

	return &RedeemResult{OK: true, Tier: voucher.Tier, Message: redeemMessage(voucher.Tier)}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*VoucherDTO, error) {
	code := NormalizeCode(input.Code)
	if code == "" || len(code) > maxCodeLength || !codePattern.MatchString(code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code must be 1-64 characters of A-Z, 0-9, - or _")
	}
	if !input.Tier.IsPaid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier must be PAID_1 or PAID_2")
	}

	voucher := &models.Voucher{Code: code, Tier: input.Tier}
	if input.ExpiresInDays != nil {
		days := *input.ExpiresInDays
		if days < 1 || days > MaxExpiresInDays {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiresInDays must be between 1 and 3650")
		}
		expiresAt := s.now().UTC().Add(time.Duration(days) * 24 * time.Hour)
		voucher.ExpiresAt = &expiresAt
	}

	if err := s.repo.Create(ctx, voucher); err != nil {
		if db.IsUniqueViolation(err, "code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "that code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create voucher")
	}
	dto := FromModel(voucher)
	return &dto, nil
}

func (s *service) ExpiredUnredeemed(ctx context.Context, now time.Time) ([]VoucherDTO, error) {
	rows, err := s.repo.ListExpiredUnredeemed(ctx, now.UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expired vouchers")
	}
	out := make([]VoucherDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

// NormalizeCode trims and upper-cases a voucher code.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ParseTier accepts canonical tiers plus the marketing names used by operators.
func ParseTier(raw string) (enums.Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "GOLD", string(enums.TierPaid1):
		return enums.TierPaid1, nil
	case "PLATINUM", string(enums.TierPaid2):
		return enums.TierPaid2, nil
	default:
		return "", fmt.Errorf("tier must be GOLD (PAID_1) or PLATINUM (PAID_2), got %q", raw)
	}
}

func redeemMessage(t enums.Tier) string {
	switch t {
	case enums.TierPaid1:
		return "You're now on Gold."
	case enums.TierPaid2:
		return "You're now on Platinum."
	default:
		return "You're on Silver (Free)."
	}
}
