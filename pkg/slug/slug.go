// Package slug generates and validates vendor page slugs.
package slug

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	alphabet      = "abcdefghijklmnopqrstuvwxyz0123456789"
	DefaultLength = 8
	MinLength     = 2
	MaxLength     = 63
	// MaxAttempts bounds random regeneration after a unique violation.
	MaxAttempts = 5
)

var pattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// reserved collide with first-party routes or hostnames.
var reserved = map[string]struct{}{
	"api":        {},
	"admin":      {},
	"dashboard":  {},
	"health":     {},
	"home":       {},
	"hub":        {},
	"metrics":    {},
	"onboarding": {},
	"www":        {},
}

// Random returns length characters drawn uniformly from [a-z0-9] using
// crypto/rand.
func Random(length int) (string, error) {
	return randomFrom(rand.Reader, length)
}

// randomFrom discards bytes at or above the largest multiple of the alphabet
// size so every character is equally likely.
func randomFrom(r io.Reader, length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	limit := byte(256 - 256%len(alphabet))
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// Fallback is used once random attempts are exhausted: prefix plus a base36
// millisecond timestamp.
func Fallback(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "vendor"
	}
	return prefix + "-" + strconv.FormatInt(now.UnixMilli(), 36)
}

// Normalize lowercases and trims user input.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Valid reports whether s is an acceptable, non-reserved slug.
func Valid(s string) bool {
	if len(s) < MinLength || len(s) > MaxLength || !pattern.MatchString(s) {
		return false
	}
	_, taken := reserved[s]
	return !taken
}

// IsReserved reports whether s is held back for first-party routes.
func IsReserved(s string) bool {
	_, ok := reserved[s]
	return ok
}
