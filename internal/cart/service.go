package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pristeneo/storefront/internal/pricing"
	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
)

// Service exposes cart session operations.
type Service interface {
	Items(ctx context.Context, session string) ([]LineItem, error)
	Add(ctx context.Context, session string, item LineItem) ([]LineItem, error)
	SetQuantity(ctx context.Context, session, id string, qty int) ([]LineItem, error)
	Remove(ctx context.Context, session, id string) ([]LineItem, error)
	Clear(ctx context.Context, session string) error
}

type service struct {
	store Store
}

// NewService builds a cart service over the provided store.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, errors.New("cart store required")
	}
	return &service{store: store}, nil
}

func (s *service) Items(ctx context.Context, session string) ([]LineItem, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	items, err := s.store.Load(ctx, session)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return items, nil
}

// Add merges item into the cart: an existing line for the same product id gets
// one more unit, otherwise the item is appended with quantity 1.
func (s *service) Add(ctx context.Context, session string, item LineItem) ([]LineItem, error) {
	items, err := s.Items(ctx, session)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = 1
		items = append(items, item)
	}
	return s.save(ctx, session, items)
}

// SetQuantity replaces the quantity of one line, clamped to at least 1.
func (s *service) SetQuantity(ctx context.Context, session, id string, qty int) ([]LineItem, error) {
	items, err := s.Items(ctx, session)
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		qty = 1
	}

	found := false
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = qty
			found = true
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.save(ctx, session, positive(items))
}

func (s *service) Remove(ctx context.Context, session, id string) ([]LineItem, error) {
	items, err := s.Items(ctx, session)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return s.save(ctx, session, kept)
}

func (s *service) Clear(ctx context.Context, session string) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) save(ctx context.Context, session string, items []LineItem) ([]LineItem, error) {
	if err := s.store.Save(ctx, session, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return items, nil
}

func requireSession(session string) error {
	if strings.TrimSpace(session) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	return nil
}

func positive(items []LineItem) []LineItem {
	kept := items[:0]
	for _, item := range items {
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	return kept
}

// Line is a priced cart line.
type Line struct {
	Item      LineItem
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Summary is the priced view of a cart.
type Summary struct {
	Lines []Line
	Units int
	Total decimal.Decimal
}

// Summarize prices every line at its effective unit price and totals the cart.
func Summarize(items []LineItem) Summary {
	summary := Summary{Lines: make([]Line, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		unit := pricing.EffectivePrice(item.Price, item.SalePrice)
		total := pricing.LineTotal(unit, item.Quantity)
		summary.Lines = append(summary.Lines, Line{Item: item, UnitPrice: unit, LineTotal: total})
		summary.Units += item.Quantity
		summary.Total = summary.Total.Add(total)
	}
	return summary
}
