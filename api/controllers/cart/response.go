package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/pristeneo/storefront/internal/cart"
	"github.com/pristeneo/storefront/internal/pricing"
)

// checkoutPath is where the storefront sends the shopper after adding an item.
const checkoutPath = "/cart"

type cartLineView struct {
	cartsvc.LineItem
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	LineTotalDisplay string          `json:"line_total_display"`
}

type cartView struct {
	Items        []cartLineView  `json:"items"`
	Units        int             `json:"units"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"total_display"`
	CheckoutURL  string          `json:"checkout_url,omitempty"`
}

func newCartView(items []cartsvc.LineItem) cartView {
	summary := cartsvc.Summarize(items)
	lines := make([]cartLineView, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		lines = append(lines, cartLineView{
			LineItem:         line.Item,
			UnitPrice:        line.UnitPrice,
			LineTotal:        line.LineTotal,
			LineTotalDisplay: pricing.FormatRupees(line.LineTotal),
		})
	}
	return cartView{
		Items:        lines,
		Units:        summary.Units,
		Total:        summary.Total,
		TotalDisplay: pricing.FormatRupees(summary.Total),
	}
}
