package controllers

import (
	"net/http"

	"github.com/mintalist/mintalist-backend/api/responses"
	"github.com/mintalist/mintalist-backend/api/validators"
	"github.com/mintalist/mintalist-backend/internal/payments"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

// Checkout starts a hosted Paymob checkout for the caller's vendor.
func Checkout(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "payment")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload payments.CheckoutInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.StartCheckout(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PaymobCallback settles a payment from the gateway's browser redirect and
// forwards the browser to the dashboard. It never answers with JSON.
func PaymobCallback(svc payments.Service, baseURL string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcome := payments.CallbackOutcome{Reason: payments.ReasonServerError}
		if svc != nil {
			outcome = svc.HandleCallback(r.Context(), r.URL.Query())
		} else if logg != nil {
			logg.Warn(r.Context(), "payment.callback.service_unavailable")
		}
		http.Redirect(w, r, outcome.RedirectURL(baseURL), http.StatusFound)
	}
}
