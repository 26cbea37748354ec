package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintalist/mintalist-backend/pkg/metrics"
)

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	reg := prometheus.NewRegistry()
	business := metrics.NewBusinessMetrics(reg)
	limiter := &fakeLimiter{}
	handler := RateLimit(limiter, RateLimitOptions{Scope: "api", Limit: 2, Window: time.Minute, Metrics: business}, nil)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/vendor/me", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, int64(3), limiter.counts["api:203.0.113.9"])
	assert.Equal(t, float64(1), counterValue(t, reg, "rate_limit_blocked_total"))
}

func TestRateLimitSeparatesClients(t *testing.T) {
	limiter := &fakeLimiter{}
	handler := RateLimit(limiter, RateLimitOptions{Scope: "api", Limit: 1, Window: time.Minute}, nil)(okHandler())

	for _, ip := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/vendor/me", nil)
		req.Header.Set("X-Real-IP", ip)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		require.Equal(t, http.StatusOK, resp.Code, ip)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	handler := RateLimit(limiter, RateLimitOptions{Scope: "api", Limit: 1, Window: time.Minute}, nil)(okHandler())

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/vendor/me", nil))
		require.Equal(t, http.StatusOK, resp.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.Header.Set("X-Real-IP", "192.0.2.8")
	assert.Equal(t, "192.0.2.8", clientIP(req))

	req.Header.Set("X-Forwarded-For", "192.0.2.9, 10.1.1.1")
	assert.Equal(t, "192.0.2.9", clientIP(req))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
