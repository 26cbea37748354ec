package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mintalist/mintalist-backend/pkg/resolver"
)

// hostPassthrough lists path prefixes that keep their own routing on a
// vendor subdomain.
var hostPassthrough = []string{"/api", "/health", "/metrics"}

// HostRewrite serves "<slug>.<mainHost>/..." as the public page for slug. The
// subdomain wins over any path segment, so every non-reserved path on a
// vendor subdomain is rewritten to "/<slug>".
func HostRewrite(mainHost string) func(http.Handler) http.Handler {
	mainHost = strings.ToLower(strings.TrimSpace(mainHost))
	return func(next http.Handler) http.Handler {
		if mainHost == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPassthroughPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			slug, fromSubdomain := resolver.Resolve(r.Host, r.URL.Path, mainHost)
			if !fromSubdomain {
				next.ServeHTTP(w, r)
				return
			}

			r2 := r.Clone(context.WithValue(r.Context(), ctxViaSubdomain, true))
			r2.URL.Path = "/" + slug
			r2.URL.RawPath = ""
			next.ServeHTTP(w, r2)
		})
	}
}

func isPassthroughPath(path string) bool {
	for _, prefix := range hostPassthrough {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
