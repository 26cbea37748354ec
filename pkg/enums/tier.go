package enums

import "fmt"

// Tier is the subscription level that gates vendor capabilities.
type Tier string

const (
	TierFree  Tier = "FREE"
	TierPaid1 Tier = "PAID_1"
	TierPaid2 Tier = "PAID_2"
)

var validTiers = []Tier{
	TierFree,
	TierPaid1,
	TierPaid2,
}

// String implements fmt.Stringer.
func (t Tier) String() string {
	return string(t)
}

// IsValid reports whether the value is a known Tier.
func (t Tier) IsValid() bool {
	for _, candidate := range validTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTier converts raw input into a Tier.
func ParseTier(value string) (Tier, error) {
	for _, candidate := range validTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tier %q", value)
}

// IsPaid reports whether the tier is one of the purchasable plans.
func (t Tier) IsPaid() bool {
	return t == TierPaid1 || t == TierPaid2
}
