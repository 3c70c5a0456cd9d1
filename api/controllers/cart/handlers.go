package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pristeneo/storefront/api/middleware"
	"github.com/pristeneo/storefront/api/responses"
	"github.com/pristeneo/storefront/api/validators"
	cartsvc "github.com/pristeneo/storefront/internal/cart"
	"github.com/pristeneo/storefront/internal/catalog"
	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/logger"
)

type productLookup interface {
	Get(ctx context.Context, slug string) (*catalog.Product, error)
}

// CartView returns the session cart with line and cart totals.
func CartView(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		items, err := svc.Items(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(items))
	}
}

// CartAddItem reads the product fresh from the catalog and merges it into the
// session cart. Out of stock products are rejected.
func CartAddItem(svc cartsvc.Service, products productLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.Get(r.Context(), strings.TrimSpace(payload.Slug))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.Available() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock").WithDetails(map[string]any{"slug": product.Slug}))
			return
		}

		items, err := svc.Add(r.Context(), middleware.CartSessionFromContext(r.Context()), product.LineItem())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := newCartView(items)
		view.CheckoutURL = checkoutPath
		responses.WriteSuccess(w, view)
	}
}

// CartUpdateItem sets the quantity of a cart line. Values below one are
// clamped to one.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.SetQuantity(r.Context(), middleware.CartSessionFromContext(r.Context()), chi.URLParam(r, "id"), *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(items))
	}
}

// CartRemoveItem drops a line from the cart. Unknown ids are ignored.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		items, err := svc.Remove(r.Context(), middleware.CartSessionFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(items))
	}
}

// CartClear empties the session cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context(), middleware.CartSessionFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(nil))
	}
}
