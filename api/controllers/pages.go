package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pristeneo/storefront/api/responses"
	"github.com/pristeneo/storefront/internal/pages"
	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/logger"
)

type urlLister interface {
	URLs(ctx context.Context) ([]string, error)
}

// PageGet renders a CMS page by slug.
func PageGet(svc pages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "page service unavailable"))
			return
		}

		page, err := svc.BySlug(r.Context(), strings.TrimSpace(chi.URLParam(r, "slug")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// Sitemap lists the absolute URLs of every public route.
func Sitemap(builder urlLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if builder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sitemap unavailable"))
			return
		}

		urls, err := builder.URLs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, urls)
	}
}
