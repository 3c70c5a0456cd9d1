package pricing

import (
	"github.com/shopspring/decimal"
)

const currencyPrefix = "Rs "

var hundred = decimal.NewFromInt(100)

// SaleValid reports whether sale should override base. A sale counts only when
// it is positive and strictly below a positive base, or when no base is set.
func SaleValid(base, sale *float64) bool {
	if sale == nil || *sale <= 0 {
		return false
	}
	if base == nil || *base <= 0 {
		return true
	}
	return *sale < *base
}

// EffectivePrice is the unit price used for display and totals: the sale price
// when valid, else the base price, else zero.
func EffectivePrice(base, sale *float64) decimal.Decimal {
	if SaleValid(base, sale) {
		return decimal.NewFromFloat(*sale)
	}
	if base != nil && *base > 0 {
		return decimal.NewFromFloat(*base)
	}
	return decimal.Zero
}

// HasPrice is false for "price on enquiry" products.
func HasPrice(base, sale *float64) bool {
	return EffectivePrice(base, sale).IsPositive()
}

// DiscountPercent returns the whole-percent saving shown next to a sale price.
func DiscountPercent(base, sale *float64) int {
	if base == nil || *base <= 0 || !SaleValid(base, sale) {
		return 0
	}
	b := decimal.NewFromFloat(*base)
	off := b.Sub(decimal.NewFromFloat(*sale)).Div(b).Mul(hundred).Round(0)
	return int(off.IntPart())
}

// LineTotal multiplies a unit price by a quantity.
func LineTotal(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

// FormatRupees renders an amount rounded to whole rupees, e.g. "Rs 1000".
func FormatRupees(amount decimal.Decimal) string {
	return currencyPrefix + amount.Round(0).StringFixed(0)
}
