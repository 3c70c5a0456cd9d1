package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/pristeneo/storefront/internal/catalog"
)

// reservedSlugs belong to application routes and never resolve to CMS pages.
var reservedSlugs = map[string]struct{}{
	"products": {},
	"studio":   {},
	"api":      {},
}

// IsReserved reports whether slug is taken by an application route.
func IsReserved(slug string) bool {
	_, ok := reservedSlugs[strings.ToLower(strings.TrimSpace(slug))]
	return ok
}

// Page is a CMS page document with its raw rich-text body.
type Page struct {
	ID      string          `json:"_id"`
	Title   string          `json:"title"`
	Slug    string          `json:"slug"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Source reads published documents. Single-document lookups return nil with no
// error when nothing matches.
type Source interface {
	Products(ctx context.Context) ([]catalog.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error)
	ProductSlugs(ctx context.Context) ([]string, error)
	PageBySlug(ctx context.Context, slug string) (*Page, error)
	PageSlugs(ctx context.Context) ([]string, error)
}

type querier interface {
	Query(ctx context.Context, query string, params map[string]any, dest any) (bool, error)
}

// SanitySource runs the storefront GROQ queries.
type SanitySource struct {
	client querier
}

func NewSanitySource(client querier) (*SanitySource, error) {
	if client == nil {
		return nil, errors.New("sanity client required")
	}
	return &SanitySource{client: client}, nil
}

func (s *SanitySource) Products(ctx context.Context) ([]catalog.Product, error) {
	products := []catalog.Product{}
	if _, err := s.client.Query(ctx, productsQuery, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *SanitySource) ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	found, err := s.client.Query(ctx, singleProductQuery, map[string]any{"slug": slug}, &product)
	if err != nil || !found {
		return nil, err
	}
	return &product, nil
}

func (s *SanitySource) ProductSlugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	if _, err := s.client.Query(ctx, productSlugsQuery, nil, &slugs); err != nil {
		return nil, err
	}
	return slugs, nil
}

func (s *SanitySource) PageBySlug(ctx context.Context, slug string) (*Page, error) {
	var page Page
	found, err := s.client.Query(ctx, pageBySlugQuery, map[string]any{"slug": slug}, &page)
	if err != nil || !found {
		return nil, err
	}
	return &page, nil
}

// PageSlugs lists page slugs, leaving out reserved ones.
func (s *SanitySource) PageSlugs(ctx context.Context) ([]string, error) {
	var all []string
	if _, err := s.client.Query(ctx, pageSlugsQuery, nil, &all); err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(all))
	for _, slug := range all {
		if !IsReserved(slug) {
			slugs = append(slugs, slug)
		}
	}
	return slugs, nil
}
