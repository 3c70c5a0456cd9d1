package cart

import (
	cartsvc "github.com/pristeneo/storefront/internal/cart"
	"github.com/pristeneo/storefront/internal/orders"
)

type addItemRequest struct {
	Slug string `json:"slug" validate:"required,notblank"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type checkoutRequest struct {
	Customer orders.Customer `json:"customer"`
}

func (c checkoutRequest) toPayload(items []cartsvc.LineItem) orders.Payload {
	return orders.Payload{Items: items, Customer: c.Customer}
}
