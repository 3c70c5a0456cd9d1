package pages

import (
	"context"
	"errors"
	"strings"

	"github.com/pristeneo/storefront/internal/content"
	"github.com/pristeneo/storefront/internal/richtext"
	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
)

// Page is a rendered CMS page.
type Page struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

type pageSource interface {
	PageBySlug(ctx context.Context, slug string) (*content.Page, error)
}

// Service resolves and renders CMS pages.
type Service interface {
	BySlug(ctx context.Context, slug string) (*Page, error)
}

type service struct {
	source   pageSource
	renderer richtext.Renderer
}

func NewService(source pageSource, renderer richtext.Renderer) (Service, error) {
	if source == nil {
		return nil, errors.New("page source required")
	}
	if renderer == nil {
		return nil, errors.New("rich text renderer required")
	}
	return &service{source: source, renderer: renderer}, nil
}

// BySlug returns not found for reserved slugs without querying the source.
func (s *service) BySlug(ctx context.Context, slug string) (*Page, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || content.IsReserved(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
	}
	doc, err := s.source.PageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
	}
	body, err := s.renderer.Render(doc.Content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "render page content")
	}
	return &Page{ID: doc.ID, Slug: doc.Slug, Title: doc.Title, HTML: body}, nil
}
