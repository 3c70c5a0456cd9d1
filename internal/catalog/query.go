package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pristeneo/storefront/internal/pricing"
)

type Sort string

const (
	SortDefault   Sort = "default"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"

	// SizeAll disables the size filter.
	SizeAll = "all"
)

// ParseSort maps a query value to a Sort; empty means default.
func ParseSort(value string) (Sort, error) {
	switch s := Sort(strings.ToLower(strings.TrimSpace(value))); s {
	case "", SortDefault:
		return SortDefault, nil
	case SortPriceAsc, SortPriceDesc:
		return s, nil
	default:
		return "", fmt.Errorf("unsupported sort %q", value)
	}
}

// Query narrows and orders a product list.
type Query struct {
	Search string
	Size   string
	Sort   Sort
}

// Apply filters products by search text and size, then sorts them. The input
// slice is not modified.
func Apply(products []Product, q Query) []Product {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	size := strings.TrimSpace(q.Size)
	if strings.EqualFold(size, SizeAll) {
		size = ""
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !matches(p, needle) {
			continue
		}
		if size != "" && p.sizeLabel() != size {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sortByPrice(out, false)
	case SortPriceDesc:
		sortByPrice(out, true)
	}
	return out
}

func matches(p Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.descriptionText()), needle)
}

// sortByPrice orders by effective price; products without a price always
// trail, whichever the direction.
func sortByPrice(products []Product, desc bool) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		aPriced, bPriced := a.HasPrice(), b.HasPrice()
		if aPriced != bPriced {
			return aPriced
		}
		if !aPriced {
			return false
		}
		pa := pricing.EffectivePrice(a.Price, a.SalePrice)
		pb := pricing.EffectivePrice(b.Price, b.SalePrice)
		if desc {
			return pa.GreaterThan(pb)
		}
		return pa.LessThan(pb)
	})
}

// Sizes lists the distinct size labels in first-seen order.
func Sizes(products []Product) []string {
	seen := map[string]struct{}{}
	sizes := []string{}
	for _, p := range products {
		label := p.sizeLabel()
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		sizes = append(sizes, label)
	}
	return sizes
}
