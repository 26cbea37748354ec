package middleware

import (
	"net/http"

	"github.com/mintalist/mintalist-backend/api/responses"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

type adminChecker interface {
	IsAdmin(userID, email string) bool
}

// HubAdmin admits only allow-listed identities. It must run after Auth.
func HubAdmin(checker adminChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := UserIDFromContext(ctx)
			if userID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if checker == nil || !checker.IsAdmin(userID, EmailFromContext(ctx)) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "hub access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
