// Package tier maps subscription tiers to the capabilities they unlock.
package tier

import (
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
)

// Capability is a feature gated by tier.
type Capability string

const (
	CapabilityCustomSlug      Capability = "custom_slug"
	CapabilityBackgroundImage Capability = "background_image"
	CapabilitySubdomain       Capability = "subdomain"
	CapabilityAdFree          Capability = "ad_free"
)

var capabilities = map[enums.Tier]map[Capability]bool{
	enums.TierFree: {},
	enums.TierPaid1: {
		CapabilityCustomSlug:      true,
		CapabilityBackgroundImage: true,
		CapabilityAdFree:          true,
	},
	enums.TierPaid2: {
		CapabilityCustomSlug:      true,
		CapabilityBackgroundImage: true,
		CapabilitySubdomain:       true,
		CapabilityAdFree:          true,
	},
}

// Allows reports whether t grants c. Unknown tiers grant nothing.
func Allows(t enums.Tier, c Capability) bool {
	return capabilities[t][c]
}

// Check returns a TIER_FORBIDDEN error when t lacks c.
func Check(t enums.Tier, c Capability) error {
	if Allows(t, c) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeTierForbidden, "feature not available on the current plan").
		WithDetails(map[string]any{"tier": t, "capability": c})
}

// ShowAds reports whether the public page renders the platform ad.
func ShowAds(t enums.Tier) bool {
	return !Allows(t, CapabilityAdFree)
}

func IsPaid(t enums.Tier) bool {
	return t.IsPaid()
}

// Summary is the capability set exposed to vendor dashboards.
type Summary struct {
	CustomSlug      bool `json:"customSlug"`
	BackgroundImage bool `json:"backgroundImage"`
	Subdomain       bool `json:"subdomain"`
	ShowAds         bool `json:"showAds"`
}

func Summarize(t enums.Tier) Summary {
	return Summary{
		CustomSlug:      Allows(t, CapabilityCustomSlug),
		BackgroundImage: Allows(t, CapabilityBackgroundImage),
		Subdomain:       Allows(t, CapabilitySubdomain),
		ShowAds:         ShowAds(t),
	}
}
