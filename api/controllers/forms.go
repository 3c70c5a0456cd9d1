package controllers

import (
	"net/http"

	"github.com/pristeneo/storefront/api/responses"
	"github.com/pristeneo/storefront/api/validators"
	"github.com/pristeneo/storefront/internal/contact"
	"github.com/pristeneo/storefront/internal/orders"
	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/logger"
)

// CartOrder accepts a client-side cart with customer details and sends the
// order emails.
func CartOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteAckError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		form := validators.DecodeForm[orders.Payload](r, orders.InvalidReason)
		if !form.OK {
			RejectForm(w, r, logg, form.Reason, form.Err)
			return
		}

		if err := svc.Submit(r.Context(), form.Value); err != nil {
			responses.WriteAckError(r.Context(), logg, w, err)
			return
		}

		responses.WriteAck(w)
	}
}

// Contact relays a contact form submission to the operator.
func Contact(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteAckError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		form := validators.DecodeForm[contact.Payload](r, contact.InvalidReason)
		if !form.OK {
			RejectForm(w, r, logg, form.Reason, form.Err)
			return
		}

		if err := svc.Submit(r.Context(), form.Value); err != nil {
			responses.WriteAckError(r.Context(), logg, w, err)
			return
		}

		responses.WriteAck(w)
	}
}

// RejectForm answers a form submission that failed decoding or validation.
func RejectForm(w http.ResponseWriter, r *http.Request, logg *logger.Logger, reason string, cause error) {
	if logg != nil {
		fields := map[string]any{"reason": reason}
		if cause != nil {
			fields["error"] = cause.Error()
		}
		logg.WarnFields(r.Context(), "form.rejected", fields)
	}
	responses.WriteAckReject(w, http.StatusBadRequest, reason)
}
