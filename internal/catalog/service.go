package catalog

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
)

type productSource interface {
	Products(ctx context.Context) ([]Product, error)
	ProductBySlug(ctx context.Context, slug string) (*Product, error)
}

// Listing is a filtered catalog page: Shown of Total products match.
type Listing struct {
	Products []Product `json:"products"`
	Sizes    []string  `json:"sizes"`
	Total    int       `json:"total"`
	Shown    int       `json:"shown"`
}

// Service exposes catalog reads.
type Service interface {
	List(ctx context.Context, q Query) (*Listing, error)
	Get(ctx context.Context, slug string) (*Product, error)
}

type service struct {
	source productSource
}

func NewService(source productSource) (Service, error) {
	if source == nil {
		return nil, errors.New("product source required")
	}
	return &service{source: source}, nil
}

func (s *service) List(ctx context.Context, q Query) (*Listing, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	filtered := Apply(products, q)
	return &Listing{
		Products: filtered,
		Sizes:    Sizes(products),
		Total:    len(products),
		Shown:    len(filtered),
	}, nil
}

func (s *service) Get(ctx context.Context, slug string) (*Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	product, err := s.source.ProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
