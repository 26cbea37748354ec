package enums

import "fmt"

// ContactSource records where a sales lead originated.
type ContactSource string

const (
	ContactSourceUpgradeClick   ContactSource = "UPGRADE_CLICK"
	ContactSourceOnboardingGold ContactSource = "ONBOARDING_GOLD"
)

var validContactSources = []ContactSource{
	ContactSourceUpgradeClick,
	ContactSourceOnboardingGold,
}

// String implements fmt.Stringer.
func (c ContactSource) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContactSource.
func (c ContactSource) IsValid() bool {
	for _, candidate := range validContactSources {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContactSource converts raw input into a ContactSource.
func ParseContactSource(value string) (ContactSource, error) {
	for _, candidate := range validContactSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact source %q", value)
}
