package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mintalist/mintalist-backend/internal/vouchers"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

type expiredVoucherLister interface {
	ExpiredUnredeemed(ctx context.Context, now time.Time) ([]vouchers.VoucherDTO, error)
}

// NewExpiredVouchersJob reports vouchers that lapsed without redemption.
func NewExpiredVouchersJob(logg *logger.Logger, lister expiredVoucherLister) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if lister == nil {
		return nil, fmt.Errorf("voucher service required")
	}
	return &expiredVouchersJob{logg: logg, lister: lister, now: time.Now}, nil
}

type expiredVouchersJob struct {
	logg   *logger.Logger
	lister expiredVoucherLister
	now    func() time.Time
}

func (j *expiredVouchersJob) Name() string { return "expired-vouchers" }

func (j *expiredVouchersJob) Run(ctx context.Context) error {
	expired, err := j.lister.ExpiredUnredeemed(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("list expired vouchers: %w", err)
	}
	codes := make([]string, 0, len(expired))
	for _, v := range expired {
		codes = append(codes, v.Code)
	}
	ctx = j.logg.WithFields(ctx, map[string]any{"count": len(expired), "codes": codes})
	j.logg.Info(ctx, "vouchers.expired_unredeemed")
	return nil
}
