package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mintalist/mintalist-backend/api/responses"
	"github.com/mintalist/mintalist-backend/api/validators"
	"github.com/mintalist/mintalist-backend/internal/menu"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

type menuItemRequest struct {
	Name        *string         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       json.RawMessage `json:"price,omitempty"`
	IsAvailable *bool           `json:"isAvailable,omitempty"`
}

func (p menuItemRequest) price() (*decimal.Decimal, error) {
	if len(p.Price) == 0 || string(p.Price) == "null" {
		return nil, nil
	}
	value, err := menu.ParsePrice(string(p.Price))
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (p menuItemRequest) toCreateInput() (menu.CreateItemInput, error) {
	price, err := menu.ParsePrice(string(p.Price))
	if err != nil {
		return menu.CreateItemInput{}, err
	}
	input := menu.CreateItemInput{
		Description: p.Description,
		Price:       price,
		IsAvailable: p.IsAvailable,
	}
	if p.Name != nil {
		input.Name = *p.Name
	}
	return input, nil
}

func (p menuItemRequest) toUpdateInput() (menu.UpdateItemInput, error) {
	price, err := p.price()
	if err != nil {
		return menu.UpdateItemInput{}, err
	}
	return menu.UpdateItemInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		IsAvailable: p.IsAvailable,
	}, nil
}

func MenuList(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "menu")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		items, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func MenuCreate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "menu")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload menuItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func MenuUpdate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "menu")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		itemID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload menuItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), userID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func MenuDelete(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "menu")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		itemID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
