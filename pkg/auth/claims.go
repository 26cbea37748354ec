package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityPayload captures the data available when minting a session token.
type IdentityPayload struct {
	UserID string
	Email  string
	JTI    string
}

// IdentityClaims is the session token issued by the identity provider.
// The provider's user id travels in the standard "sub" claim.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the identity-provider user id.
func (c IdentityClaims) UserID() string {
	return strings.TrimSpace(c.Subject)
}
