package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("PAID_2")
	require.NoError(t, err)
	assert.Equal(t, TierPaid2, tier)
	assert.True(t, tier.IsPaid())
	assert.False(t, TierFree.IsPaid())

	_, err = ParseTier("GOLD")
	require.Error(t, err)
	assert.False(t, Tier("paid_1").IsValid())
}

func TestParseBillingPeriod(t *testing.T) {
	period, err := ParseBillingPeriod("ANNUAL")
	require.NoError(t, err)
	assert.Equal(t, BillingPeriodAnnual, period)

	_, err = ParseBillingPeriod("WEEKLY")
	require.Error(t, err)
}

func TestSocialPlatformsIsACopy(t *testing.T) {
	platforms := SocialPlatforms()
	require.Len(t, platforms, 7)
	platforms[0] = "myspace"
	assert.Equal(t, SocialPlatformInstagram, SocialPlatforms()[0])
	assert.True(t, SocialPlatformWhatsApp.IsValid())
}

func TestPlanPreferenceAndStatus(t *testing.T) {
	pref, err := ParsePlanPreference("GOLD_1_MONTH")
	require.NoError(t, err)
	assert.Equal(t, PlanPreferenceGold1Month, pref)

	assert.True(t, PaymentStatusPending.IsValid())
	assert.False(t, PaymentStatus("pending").IsValid())
	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.True(t, PaymentStatusSuccess.IsTerminal())
	assert.True(t, PaymentStatusFailed.IsTerminal())
	assert.True(t, ContactSourceOnboardingGold.IsValid())
}
