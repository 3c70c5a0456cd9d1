package catalog

import (
	"strings"

	"github.com/pristeneo/storefront/internal/cart"
	"github.com/pristeneo/storefront/internal/pricing"
	"github.com/pristeneo/storefront/pkg/sanity"
)

// Product is a catalog entry as published in the content store. The
// application only reads it.
type Product struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Size        *string       `json:"size,omitempty"`
	Description *string       `json:"description,omitempty"`
	Benefits    []string      `json:"benefits,omitempty"`
	Image       *sanity.Image `json:"image,omitempty"`
	Price       *float64      `json:"price,omitempty"`
	SalePrice   *float64      `json:"salePrice,omitempty"`
	InStock     *bool         `json:"inStock,omitempty"`
}

// Available treats a missing stock flag as in stock.
func (p Product) Available() bool {
	return p.InStock == nil || *p.InStock
}

func (p Product) HasPrice() bool {
	return pricing.HasPrice(p.Price, p.SalePrice)
}

func (p Product) sizeLabel() string {
	if p.Size == nil {
		return ""
	}
	return *p.Size
}

func (p Product) descriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// LineItem snapshots the product for a cart line with quantity 1.
func (p Product) LineItem() cart.LineItem {
	size := p.Size
	if size != nil && strings.TrimSpace(*size) == "" {
		size = nil
	}
	return cart.LineItem{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Size:      size,
		Price:     p.Price,
		SalePrice: p.SalePrice,
		Quantity:  1,
	}
}
