package hub

import (
	"strings"

	"github.com/mintalist/mintalist-backend/pkg/config"
)

// Authorizer decides who may use the Hub back office.
type Authorizer struct {
	userIDs map[string]struct{}
	emails  map[string]struct{}
}

func NewAuthorizer(cfg config.HubConfig) *Authorizer {
	a := &Authorizer{
		userIDs: make(map[string]struct{}, len(cfg.AdminUserIDs)),
		emails:  make(map[string]struct{}, len(cfg.AdminEmails)),
	}
	for _, id := range cfg.AdminUserIDs {
		if id = strings.TrimSpace(id); id != "" {
			a.userIDs[id] = struct{}{}
		}
	}
	for _, email := range cfg.AdminEmails {
		if email = normalizeEmail(email); email != "" {
			a.emails[email] = struct{}{}
		}
	}
	return a
}

// IsAdmin matches the user id exactly or the email case-insensitively.
func (a *Authorizer) IsAdmin(userID, email string) bool {
	if a == nil {
		return false
	}
	if id := strings.TrimSpace(userID); id != "" {
		if _, ok := a.userIDs[id]; ok {
			return true
		}
	}
	if email = normalizeEmail(email); email != "" {
		if _, ok := a.emails[email]; ok {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
