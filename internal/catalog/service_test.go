package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
)

type stubSource struct {
	products []Product
	err      error
}

func (s stubSource) Products(context.Context) ([]Product, error) {
	return s.products, s.err
}

func (s stubSource) ProductBySlug(_ context.Context, slug string) (*Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func TestServiceList(t *testing.T) {
	svc, err := NewService(stubSource{products: fixtures()})
	require.NoError(t, err)

	listing, err := svc.List(context.Background(), Query{Size: "1L", Sort: SortPriceDesc})
	require.NoError(t, err)
	assert.Equal(t, 4, listing.Total)
	assert.Equal(t, 2, listing.Shown)
	assert.Equal(t, []string{"oil-2l", "oil-1l"}, slugs(listing.Products))
	assert.Equal(t, []string{"1L", "100ml", "5L"}, listing.Sizes)
}

func TestServiceListSourceError(t *testing.T) {
	svc, err := NewService(stubSource{err: errors.New("boom")})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), Query{})
	assert.Error(t, err)
}

func TestServiceGet(t *testing.T) {
	svc, err := NewService(stubSource{products: fixtures()})
	require.NoError(t, err)

	p, err := svc.Get(context.Background(), "oil-5l")
	require.NoError(t, err)
	assert.Equal(t, "3", p.ID)

	_, err = svc.Get(context.Background(), "missing")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = svc.Get(context.Background(), " ")
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestNewServiceRequiresSource(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)
}

func TestProductLineItemDropsBlankSize(t *testing.T) {
	blank, size := "  ", "50ml"
	assert.Nil(t, Product{ID: "p1", Slug: "rose-oil", Title: "Rose Oil", Size: &blank}.LineItem().Size)

	item := Product{ID: "p1", Slug: "rose-oil", Title: "Rose Oil", Size: &size}.LineItem()
	require.NotNil(t, item.Size)
	assert.Equal(t, "50ml", *item.Size)
	assert.Equal(t, 1, item.Quantity)
}
