package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mintalist/mintalist-backend/api/responses"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
	"github.com/mintalist/mintalist-backend/pkg/metrics"
)

// WindowLimiter is the shared counter store behind RateLimit.
type WindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitOptions configures a fixed-window per-IP limit.
type RateLimitOptions struct {
	Scope   string
	Limit   int64
	Window  time.Duration
	Metrics *metrics.BusinessMetrics
}

// RateLimit rejects callers that exceed opts.Limit requests per window. It
// fails open when the limiter store is unavailable.
func RateLimit(store WindowLimiter, opts RateLimitOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || opts.Limit <= 0 || opts.Window <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ip == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := store.FixedWindowAllow(r.Context(), opts.Scope+":"+ip, opts.Limit, opts.Window)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "rate_limit.store_unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				opts.Metrics.IncRateLimited()
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{
						"scope": opts.Scope,
						"ip":    ip,
						"count": count,
					})
					logg.Warn(ctx, "rate_limit.exceeded")
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
