package sitemap

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

type slugSource interface {
	ProductSlugs(ctx context.Context) ([]string, error)
	PageSlugs(ctx context.Context) ([]string, error)
}

// Builder lists the public URLs of the site.
type Builder struct {
	source  slugSource
	siteURL string
}

func NewBuilder(source slugSource, siteURL string) (*Builder, error) {
	if source == nil {
		return nil, errors.New("slug source required")
	}
	base := strings.TrimRight(strings.TrimSpace(siteURL), "/")
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("site url must be absolute")
	}
	return &Builder{source: source, siteURL: base}, nil
}

// URLs returns the home page, the catalog, every product and every CMS page.
// Page slugs are expected to exclude reserved routes already.
func (b *Builder) URLs(ctx context.Context) ([]string, error) {
	products, err := b.source.ProductSlugs(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := b.source.PageSlugs(ctx)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, 2+len(products)+len(pages))
	urls = append(urls, b.siteURL+"/", b.siteURL+"/products")
	for _, slug := range products {
		urls = append(urls, b.siteURL+"/products/"+url.PathEscape(slug))
	}
	for _, slug := range pages {
		urls = append(urls, b.siteURL+"/"+url.PathEscape(slug))
	}
	return urls, nil
}
