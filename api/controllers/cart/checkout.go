package cart

import (
	"net/http"

	"github.com/pristeneo/storefront/api/controllers"
	"github.com/pristeneo/storefront/api/middleware"
	"github.com/pristeneo/storefront/api/responses"
	"github.com/pristeneo/storefront/api/validators"
	cartsvc "github.com/pristeneo/storefront/internal/cart"
	"github.com/pristeneo/storefront/internal/orders"
	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/logger"
)

// CartCheckout submits the session cart as an order. The cart is cleared only
// after both order emails went out.
func CartCheckout(svc cartsvc.Service, orderSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || orderSvc == nil {
			responses.WriteAckError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		form := validators.DecodeForm[checkoutRequest](r, orders.InvalidReason)
		if !form.OK {
			controllers.RejectForm(w, r, logg, form.Reason, form.Err)
			return
		}

		session := middleware.CartSessionFromContext(r.Context())
		items, err := svc.Items(r.Context(), session)
		if err != nil {
			responses.WriteAckError(r.Context(), logg, w, err)
			return
		}

		order := validators.Check(form.Value.toPayload(items), orders.InvalidReason)
		if !order.OK {
			controllers.RejectForm(w, r, logg, order.Reason, order.Err)
			return
		}

		if err := orderSvc.Submit(r.Context(), order.Value); err != nil {
			responses.WriteAckError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), session); err != nil && logg != nil {
			logg.Error(r.Context(), "cart.clear_after_checkout_failed", err)
		}

		responses.WriteAck(w)
	}
}
