package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostRewrite(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		path     string
		wantPath string
		wantSub  bool
	}{
		{"subdomain root", "shop.mintalist.com", "/", "/shop", true},
		{"subdomain with port", "shop.mintalist.com:8080", "/", "/shop", true},
		{"subdomain wins over path", "shop.mintalist.com", "/other", "/shop", true},
		{"subdomain nested path", "shop.mintalist.com", "/other/menu", "/shop", true},
		{"subdomain api path untouched", "shop.mintalist.com", "/api/vendor/me", "/api/vendor/me", false},
		{"subdomain health untouched", "shop.mintalist.com", "/health/live", "/health/live", false},
		{"subdomain metrics untouched", "shop.mintalist.com", "/metrics", "/metrics", false},
		{"apex api-like slug", "mintalist.com", "/apiary", "/apiary", false},
		{"apex", "mintalist.com", "/shop", "/shop", false},
		{"www", "www.mintalist.com", "/", "/", false},
		{"www with path", "www.mintalist.com", "/shop", "/shop", false},
		{"nested subdomain", "a.b.mintalist.com", "/", "/", false},
		{"foreign host", "example.org", "/", "/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var gotSub bool
			handler := HostRewrite("mintalist.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotSub = ViaSubdomain(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Host = tt.host
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, tt.wantSub, gotSub)
		})
	}
}
