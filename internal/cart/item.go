package cart

import (
	"encoding/json"
	"math"
)

// LineItem is one product entry in a cart session. Price fields are the
// snapshot taken when the product was added.
type LineItem struct {
	ID        string   `json:"id" validate:"required,notblank"`
	Slug      string   `json:"slug" validate:"required,notblank"`
	Title     string   `json:"title" validate:"required,notblank"`
	Size      *string  `json:"size,omitempty" validate:"omitempty,notblank"`
	Price     *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	SalePrice *float64 `json:"salePrice,omitempty" validate:"omitempty,gte=0"`
	Quantity  int      `json:"quantity" validate:"gte=1"`
}

// storedItem mirrors LineItem with every field optional so the loader can tell
// a missing field from a zero value.
type storedItem struct {
	ID        *string  `json:"id"`
	Slug      *string  `json:"slug"`
	Title     *string  `json:"title"`
	Size      *string  `json:"size"`
	Price     *float64 `json:"price"`
	SalePrice *float64 `json:"salePrice"`
	Quantity  *float64 `json:"quantity"`
}

func (s storedItem) lineItem() (LineItem, bool) {
	if s.ID == nil || s.Slug == nil || s.Title == nil || s.Quantity == nil {
		return LineItem{}, false
	}
	q := *s.Quantity
	if q < 1 || q != math.Trunc(q) || q > math.MaxInt32 {
		return LineItem{}, false
	}
	return LineItem{
		ID:        *s.ID,
		Slug:      *s.Slug,
		Title:     *s.Title,
		Size:      s.Size,
		Price:     s.Price,
		SalePrice: s.SalePrice,
		Quantity:  int(q),
	}, true
}

// decodeItems parses a persisted slot. Anything that is not a JSON array
// yields an empty cart; individual entries that fail the shape check are dropped.
func decodeItems(raw []byte) []LineItem {
	items := []LineItem{}
	if len(raw) == 0 {
		return items
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return items
	}
	for _, entry := range entries {
		var stored storedItem
		if err := json.Unmarshal(entry, &stored); err != nil {
			continue
		}
		if item, ok := stored.lineItem(); ok {
			items = append(items, item)
		}
	}
	return items
}

func encodeItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}
