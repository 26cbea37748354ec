package controllers

import (
	"net/http"

	"github.com/mintalist/mintalist-backend/api/responses"
	"github.com/mintalist/mintalist-backend/api/validators"
	"github.com/mintalist/mintalist-backend/internal/adclicks"
	"github.com/mintalist/mintalist-backend/internal/contacts"
	"github.com/mintalist/mintalist-backend/internal/hub"
	"github.com/mintalist/mintalist-backend/internal/vouchers"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

// HubListVendors pages through vendors newest first with menu item counts.
func HubListVendors(svc hub.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "hub")
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListVendors(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func HubGetVendor(svc hub.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "hub")
			return
		}
		vendorID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetVendor(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// HubSetVendorTier overrides a vendor's tier without any payment.
func HubSetVendorTier(svc hub.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "hub")
			return
		}
		vendorID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload hub.SetTierInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.SetVendorTier(r.Context(), vendorID, payload.Tier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}

type promoRequest struct {
	Code          string     `json:"code" validate:"required,max=64"`
	Tier          enums.Tier `json:"tier" validate:"required,oneof=PAID_1 PAID_2"`
	ExpiresInDays *int       `json:"expiresInDays,omitempty" validate:"omitempty,min=1,max=3650"`
}

// HubCreatePromo issues a voucher code.
func HubCreatePromo(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "voucher")
			return
		}

		var payload promoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		voucher, err := svc.Create(r.Context(), vouchers.CreateInput{
			Code:          payload.Code,
			Tier:          payload.Tier,
			ExpiresInDays: payload.ExpiresInDays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, voucher)
	}
}

func HubContactRequests(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "contact")
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type vendorVisitRequest struct {
	EmployeeName  string      `json:"employeeName" validate:"required,max=120"`
	EmployeeEmail *string     `json:"employeeEmail,omitempty" validate:"omitempty,email"`
	BusinessName  string      `json:"businessName" validate:"required,max=200"`
	ContactName   *string     `json:"contactName,omitempty" validate:"omitempty,max=120"`
	ContactPhone  *string     `json:"contactPhone,omitempty" validate:"omitempty,max=32"`
	ContactEmail  *string     `json:"contactEmail,omitempty" validate:"omitempty,email"`
	Address       *string     `json:"address,omitempty" validate:"omitempty,max=500"`
	LocationName  *string     `json:"locationName,omitempty" validate:"omitempty,max=200"`
	AgreedTier    *enums.Tier `json:"agreedTier,omitempty" validate:"omitempty,oneof=FREE PAID_1 PAID_2"`
	Notes         *string     `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func (p vendorVisitRequest) toInput() contacts.CreateVisitInput {
	return contacts.CreateVisitInput{
		EmployeeName:  p.EmployeeName,
		EmployeeEmail: p.EmployeeEmail,
		BusinessName:  p.BusinessName,
		ContactName:   p.ContactName,
		ContactPhone:  p.ContactPhone,
		ContactEmail:  p.ContactEmail,
		Address:       p.Address,
		LocationName:  p.LocationName,
		AgreedTier:    p.AgreedTier,
		Notes:         p.Notes,
	}
}

// HubCreateVisit logs a sales field visit.
func HubCreateVisit(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "contact")
			return
		}

		var payload vendorVisitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		visit, err := svc.CreateVisit(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, visit)
	}
}

func HubListVisits(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "contact")
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListVisits(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func HubAdClicks(svc adclicks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "ad click")
			return
		}

		clicks, err := svc.Latest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, clicks)
	}
}
