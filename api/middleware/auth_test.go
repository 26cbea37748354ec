package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mintalist/mintalist-backend/pkg/auth"
	"github.com/mintalist/mintalist-backend/pkg/config"
)

func testIdentityConfig() config.IdentityConfig {
	return config.IdentityConfig{JWTSecret: "secret", JWTIssuer: "https://clerk.mintalist.test", SessionTTLMinutes: 60}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testIdentityConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testIdentityConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsForeignIssuer(t *testing.T) {
	other := testIdentityConfig()
	other.JWTIssuer = "https://elsewhere.test"
	token := mintTestToken(t, other, "user_1", "")

	handler := Auth(testIdentityConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	cfg := testIdentityConfig()
	token := mintTestToken(t, cfg, "user_2abc", "owner@cafe.test")

	var captured struct {
		user  string
		email string
	}
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserIDFromContext(r.Context())
		captured.email = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.user != "user_2abc" {
		t.Fatalf("expected user_2abc got %q", captured.user)
	}
	if captured.email != "owner@cafe.test" {
		t.Fatalf("expected email in context got %q", captured.email)
	}
}

func TestAuthAcceptsSessionCookie(t *testing.T) {
	cfg := testIdentityConfig()
	token := mintTestToken(t, cfg, "user_cookie", "")

	var user string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || user != "user_cookie" {
		t.Fatalf("expected cookie session to authenticate, got %d user=%q", resp.Code, user)
	}
}

func TestSessionTokenPrefersHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer  from-header ")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	if got := sessionToken(req); got != "from-header" {
		t.Fatalf("expected header token, got %q", got)
	}
}

func mintTestToken(t *testing.T, cfg config.IdentityConfig, userID, email string) string {
	t.Helper()
	token, err := auth.MintIdentityToken(cfg, time.Now(), auth.IdentityPayload{UserID: userID, Email: email})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
