package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mintalist/mintalist-backend/pkg/logger"
)

const defaultStalePaymentAge = 24 * time.Hour

type paymentReaper interface {
	ReapStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NewStalePaymentsJob fails checkouts that never received a callback.
func NewStalePaymentsJob(logg *logger.Logger, payments paymentReaper, olderThan time.Duration) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment service required")
	}
	if olderThan <= 0 {
		olderThan = defaultStalePaymentAge
	}
	return &stalePaymentsJob{logg: logg, payments: payments, olderThan: olderThan}, nil
}

type stalePaymentsJob struct {
	logg      *logger.Logger
	payments  paymentReaper
	olderThan time.Duration
}

func (j *stalePaymentsJob) Name() string { return "stale-payments" }

func (j *stalePaymentsJob) Run(ctx context.Context) error {
	n, err := j.payments.ReapStale(ctx, j.olderThan)
	if err != nil {
		return fmt.Errorf("reap stale payments: %w", err)
	}
	ctx = j.logg.WithFields(ctx, map[string]any{"count": n, "older_than": j.olderThan.String()})
	j.logg.Info(ctx, "payments.reaped")
	return nil
}
