package enums

import "fmt"

// PlanPreference is the plan a vendor picked during onboarding.
type PlanPreference string

const (
	PlanPreferenceFreeAlways     PlanPreference = "FREE_ALWAYS"
	PlanPreferenceGold1Month     PlanPreference = "GOLD_1_MONTH"
	PlanPreferencePlatinum2Weeks PlanPreference = "PLATINUM_2_WEEKS"
)

var validPlanPreferences = []PlanPreference{
	PlanPreferenceFreeAlways,
	PlanPreferenceGold1Month,
	PlanPreferencePlatinum2Weeks,
}

// String implements fmt.Stringer.
func (p PlanPreference) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlanPreference.
func (p PlanPreference) IsValid() bool {
	for _, candidate := range validPlanPreferences {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlanPreference converts raw input into a PlanPreference.
func ParsePlanPreference(value string) (PlanPreference, error) {
	for _, candidate := range validPlanPreferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan preference %q", value)
}
