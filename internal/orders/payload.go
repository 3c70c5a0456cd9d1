package orders

import "github.com/pristeneo/storefront/internal/cart"

// InvalidReason is the rejection text for a payload that fails validation.
const InvalidReason = "Invalid order payload"

// Customer is the contact captured at checkout. Phone and note are optional.
type Customer struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,notblank"`
	Phone string `json:"phone,omitempty"`
	Note  string `json:"note,omitempty"`
}

// Payload is a cart order submission.
type Payload struct {
	Items    []cart.LineItem `json:"items" validate:"required,min=1,dive"`
	Customer Customer        `json:"customer"`
}
