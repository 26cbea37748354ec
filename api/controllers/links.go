package controllers

import (
	"net/http"

	"github.com/mintalist/mintalist-backend/api/responses"
	"github.com/mintalist/mintalist-backend/api/validators"
	"github.com/mintalist/mintalist-backend/internal/links"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

type linkCreateRequest struct {
	Type     string               `json:"type" validate:"required,oneof=social custom"`
	Platform enums.SocialPlatform `json:"platform,omitempty" validate:"required_if=Type social"`
	Title    string               `json:"title,omitempty" validate:"required_if=Type custom,max=120"`
	URL      string               `json:"url" validate:"required,url,max=2048"`
}

type linkUpdateRequest struct {
	Platform *enums.SocialPlatform `json:"platform,omitempty"`
	Title    *string               `json:"title,omitempty" validate:"omitempty,max=120"`
	URL      *string               `json:"url,omitempty" validate:"omitempty,url,max=2048"`
}

func LinksList(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "links")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		list, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// LinksCreate adds a custom link or upserts the social link of a platform.
func LinksCreate(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "links")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload linkCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), userID, links.CreateLinkInput{
			Type:     payload.Type,
			Platform: payload.Platform,
			Title:    payload.Title,
			URL:      payload.URL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result.Payload())
	}
}

func LinksUpdate(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "links")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		linkID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload linkUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), userID, linkID, links.UpdateLinkInput{
			Platform: payload.Platform,
			Title:    payload.Title,
			URL:      payload.URL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result.Payload())
	}
}

func LinksDelete(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "links")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		linkID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, linkID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
