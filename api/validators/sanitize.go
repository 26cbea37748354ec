package validators

import "strings"

// TrimPtr trims an optional string, keeping nil as nil.
func TrimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
