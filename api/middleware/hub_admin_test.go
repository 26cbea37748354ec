package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubAdminChecker struct {
	userIDs map[string]bool
}

func (s stubAdminChecker) IsAdmin(userID, _ string) bool {
	return s.userIDs[userID]
}

func TestHubAdmin(t *testing.T) {
	checker := stubAdminChecker{userIDs: map[string]bool{"user_admin": true}}
	handler := HubAdmin(checker, nil)(okHandler())

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"vendor", "user_vendor", http.StatusForbidden},
		{"admin", "user_admin", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/hub/vendors", nil)
			if tt.userID != "" {
				req = req.WithContext(WithIdentity(context.Background(), tt.userID, ""))
			}
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)
			assert.Equal(t, tt.want, resp.Code)
		})
	}
}
