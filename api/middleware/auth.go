package middleware

import (
	"net/http"
	"strings"

	"github.com/mintalist/mintalist-backend/api/responses"
	pkgauth "github.com/mintalist/mintalist-backend/pkg/auth"
	"github.com/mintalist/mintalist-backend/pkg/config"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

// SessionCookie is the cookie the identity provider's browser SDK keeps the
// session token in for same-site requests from the dashboard.
const SessionCookie = "__session"

// Auth requires an identity session token, from the Authorization header or
// the session cookie, and seeds the request context with the caller's user id
// and email.
func Auth(cfg config.IdentityConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseIdentityToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithIdentity(r.Context(), claims.UserID(), claims.Email)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken prefers an explicit bearer header over the cookie.
func sessionToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}
	if header != "" {
		return header
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
