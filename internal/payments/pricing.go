package payments

import (
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
)

// PriceOverrides replaces the list price for every paid tier of a period
// when the value is positive.
type PriceOverrides struct {
	MonthlyCents int64
	AnnualCents  int64
}

type priceKey struct {
	tier   enums.Tier
	period enums.BillingPeriod
}

var priceTable = map[priceKey]int64{
	{enums.TierPaid1, enums.BillingPeriodMonthly}: 10000,
	{enums.TierPaid1, enums.BillingPeriodAnnual}:  60000,
	{enums.TierPaid2, enums.BillingPeriodMonthly}: 15000,
	{enums.TierPaid2, enums.BillingPeriodAnnual}:  90000,
}

// AmountCents returns the checkout amount for a tier and billing period.
func AmountCents(tier enums.Tier, period enums.BillingPeriod, overrides PriceOverrides) (int64, error) {
	if period == "" {
		period = enums.BillingPeriodMonthly
	}
	if !period.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "period must be MONTHLY or ANNUAL")
	}
	amount, ok := priceTable[priceKey{tier, period}]
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "tier must be PAID_1 or PAID_2")
	}
	switch {
	case period == enums.BillingPeriodMonthly && overrides.MonthlyCents > 0:
		return overrides.MonthlyCents, nil
	case period == enums.BillingPeriodAnnual && overrides.AnnualCents > 0:
		return overrides.AnnualCents, nil
	}
	return amount, nil
}
