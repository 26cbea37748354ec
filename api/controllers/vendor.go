package controllers

import (
	"net/http"

	"github.com/mintalist/mintalist-backend/api/middleware"
	"github.com/mintalist/mintalist-backend/api/responses"
	"github.com/mintalist/mintalist-backend/api/validators"
	"github.com/mintalist/mintalist-backend/internal/contacts"
	"github.com/mintalist/mintalist-backend/internal/vendors"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

// VendorMe returns the caller's vendor with menu, links and capabilities.
func VendorMe(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "vendor")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		me, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, me)
	}
}

type vendorProfileRequest struct {
	Name               *string               `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Slug               *string               `json:"slug,omitempty" validate:"omitempty,slug"`
	BrandColor         *string               `json:"brandColor,omitempty" validate:"omitempty,hexcolor6"`
	LogoURL            *string               `json:"logoUrl,omitempty" validate:"omitempty,urlorempty"`
	BackgroundImageURL *string               `json:"backgroundImageUrl,omitempty"`
	Address            *string               `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone              *string               `json:"phone,omitempty" validate:"omitempty,max=32"`
	LocationName       *string               `json:"locationName,omitempty" validate:"omitempty,max=200"`
	Latitude           vendors.NullableFloat `json:"latitude"`
	Longitude          vendors.NullableFloat `json:"longitude"`
}

func (p vendorProfileRequest) toInput() vendors.UpdateProfileInput {
	return vendors.UpdateProfileInput{
		Name:               validators.TrimPtr(p.Name),
		Slug:               p.Slug,
		BrandColor:         p.BrandColor,
		LogoURL:            p.LogoURL,
		BackgroundImageURL: p.BackgroundImageURL,
		Address:            p.Address,
		Phone:              p.Phone,
		LocationName:       p.LocationName,
		Latitude:           p.Latitude,
		Longitude:          p.Longitude,
	}
}

// VendorUpdateProfile patches the caller's vendor profile. Tier-gated fields
// are rejected with TIER_FORBIDDEN rather than ignored.
func VendorUpdateProfile(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "vendor")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload vendorProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.UpdateProfile(r.Context(), userID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}

func VendorDowngrade(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "vendor")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		result, err := svc.Downgrade(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// VendorSlugAvailability answers ?slug= with {"available": bool}.
func VendorSlugAvailability(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "vendor")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		candidate := r.URL.Query().Get("slug")
		if candidate == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required").WithDetails(map[string]any{"field": "slug"}))
			return
		}

		available, err := svc.SlugAvailable(r.Context(), userID, candidate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"available": available})
	}
}

// VendorContactRequest records an upgrade lead for the sales team.
func VendorContactRequest(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "contact")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		if err := svc.RequestUpgradeContact(r.Context(), userID, middleware.EmailFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"ok": true})
	}
}

type onboardingRequest struct {
	Name           *string               `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	BrandColor     *string               `json:"brandColor,omitempty" validate:"omitempty,hexcolor6"`
	LogoURL        *string               `json:"logoUrl,omitempty" validate:"omitempty,urlorempty"`
	LocationName   *string               `json:"locationName,omitempty" validate:"omitempty,max=200"`
	Address        *string               `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone          *string               `json:"phone,omitempty" validate:"omitempty,max=32"`
	Latitude       *float64              `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude      *float64              `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	PlanPreference *enums.PlanPreference `json:"planPreference,omitempty" validate:"omitempty,oneof=FREE_ALWAYS GOLD_1_MONTH PLATINUM_2_WEEKS"`
}

func (p onboardingRequest) toInput() vendors.OnboardingInput {
	return vendors.OnboardingInput{
		Name:           validators.TrimPtr(p.Name),
		BrandColor:     p.BrandColor,
		LogoURL:        p.LogoURL,
		LocationName:   p.LocationName,
		Address:        p.Address,
		Phone:          p.Phone,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		PlanPreference: p.PlanPreference,
	}
}

// VendorOnboarding creates the caller's vendor or completes its profile.
func VendorOnboarding(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "vendor")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload onboardingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Onboard(r.Context(), userID, middleware.EmailFromContext(r.Context()), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if result.VendorID != nil {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
