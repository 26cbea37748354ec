package controllers

import (
	"net/http"

	"github.com/mintalist/mintalist-backend/api/middleware"
	"github.com/mintalist/mintalist-backend/api/responses"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

func requireUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return "", false
	}
	return userID, true
}

func serviceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}
