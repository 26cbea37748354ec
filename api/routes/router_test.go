package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintalist/mintalist-backend/internal/hub"
	"github.com/mintalist/mintalist-backend/internal/vendors"
	pkgauth "github.com/mintalist/mintalist-backend/pkg/auth"
	"github.com/mintalist/mintalist-backend/pkg/config"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
	"github.com/mintalist/mintalist-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubPublicPages struct {
	calls []publicCall
}

type publicCall struct {
	slug         string
	viaSubdomain bool
}

func (s *stubPublicPages) Get(_ context.Context, slug string, viaSubdomain bool) (*vendors.PublicPageDTO, error) {
	s.calls = append(s.calls, publicCall{slug: slug, viaSubdomain: viaSubdomain})
	if slug == "ghost" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	return &vendors.PublicPageDTO{Slug: slug}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", BaseURL: "https://mintalist.com"},
		Identity: config.IdentityConfig{
			JWTSecret:         "secret",
			JWTIssuer:         "https://clerk.mintalist.test",
			SessionTTLMinutes: 60,
		},
		Hub:       config.HubConfig{AdminEmails: []string{"ops@mintalist.com"}},
		RateLimit: config.RateLimitConfig{Window: time.Minute, Limit: 10},
	}
}

func newTestRouter(t *testing.T, pages *stubPublicPages) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	deps := Dependencies{
		DB:              stubPinger{},
		Gatherer:        reg,
		HTTPMetrics:     metrics.NewHTTPMetrics(reg),
		BusinessMetrics: metrics.NewBusinessMetrics(reg),
		PublicPages:     pages,
		HubAuth:         hub.NewAuthorizer(cfg.Hub),
	}
	return NewRouter(cfg, logger.Nop(), deps), cfg
}

func bearer(t *testing.T, cfg *config.Config, userID, email string) string {
	t.Helper()
	token, err := pkgauth.MintIdentityToken(cfg.Identity, time.Now(), pkgauth.IdentityPayload{UserID: userID, Email: email})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t, &stubPublicPages{})

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &stubPublicPages{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}

func TestPublicPageByPathAndSubdomain(t *testing.T) {
	pages := &stubPublicPages{}
	router, _ := newTestRouter(t, pages)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cafe-nile", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "cafe-nile.mintalist.com"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/vendors/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Len(t, pages.calls, 3)
	assert.Equal(t, publicCall{slug: "cafe-nile"}, pages.calls[0])
	assert.Equal(t, publicCall{slug: "cafe-nile", viaSubdomain: true}, pages.calls[1])
}

func TestSubdomainServesItsOwnVendorOnAnyPath(t *testing.T) {
	pages := &stubPublicPages{}
	router, _ := newTestRouter(t, pages)

	req := httptest.NewRequest(http.MethodGet, "/other", nil)
	req.Host = "shop.mintalist.com"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pages.calls, 1)
	assert.Equal(t, publicCall{slug: "shop", viaSubdomain: true}, pages.calls[0])
}

func TestVendorRoutesRequireIdentity(t *testing.T) {
	router, cfg := newTestRouter(t, &stubPublicPages{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vendor/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/vendor/me", nil)
	req.Header.Set("Authorization", bearer(t, cfg, "user_1", "owner@cafe.test"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	// authenticated, but the test router carries no vendor service
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHubRequiresAllowList(t *testing.T) {
	router, cfg := newTestRouter(t, &stubPublicPages{})

	req := httptest.NewRequest(http.MethodGet, "/api/hub/ad-clicks", nil)
	req.Header.Set("Authorization", bearer(t, cfg, "user_1", "owner@cafe.test"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/hub/ad-clicks", nil)
	req.Header.Set("Authorization", bearer(t, cfg, "user_ops", "OPS@mintalist.com"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPaymobCallbackRedirectsWithoutService(t *testing.T) {
	router, _ := newTestRouter(t, &stubPublicPages{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkout/paymob/callback?order=1", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://mintalist.com/dashboard/settings?error=server_error", rec.Header().Get("Location"))
}

func TestIdentityWebhookUnconfigured(t *testing.T) {
	router, _ := newTestRouter(t, &stubPublicPages{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
