package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mintalist/mintalist-backend/api/middleware"
	"github.com/mintalist/mintalist-backend/api/responses"
	"github.com/mintalist/mintalist-backend/internal/adclicks"
	"github.com/mintalist/mintalist-backend/internal/vendors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

const defaultApplyURL = "https://exale.net/apply"

// PublicPage returns the public menu page of the vendor named by {slug}.
func PublicPage(svc vendors.PublicPages, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "public page")
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		page, err := svc.Get(r.Context(), slug, middleware.ViaSubdomain(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=60")
		responses.WriteSuccess(w, page)
	}
}

// AdRedirect records an ad click and sends the visitor to the apply page.
// A failed insert never blocks the redirect.
func AdRedirect(svc adclicks.Service, applyURL string, logg *logger.Logger) http.HandlerFunc {
	if strings.TrimSpace(applyURL) == "" {
		applyURL = defaultApplyURL
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc != nil {
			if err := svc.Record(r.Context(), r.URL.Query().Get("slug")); err != nil && logg != nil {
				logg.Error(r.Context(), "adclick.record_failed", err)
			}
		}
		http.Redirect(w, r, applyURL, http.StatusFound)
	}
}
