// Package cart holds the per-session shopping cart: the only state shared
// between price display and order placement. Carts live in Redis keyed by an
// opaque session id and expire after the configured TTL.
package cart

import (
	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// AppliedPromo records the at-most-one promo attached to the session. The
// discount is recomputed from the live catalog on every quote, so the stored
// amount is a display hint, not an authority.
type AppliedPromo struct {
	PromoID  uuid.UUID `json:"promo_id"`
	Code     string    `json:"code"`
	Discount int       `json:"discount"`
}

// Cart is the session cart document stored in Redis.
type Cart struct {
	Items        types.OrderItems `json:"items"`
	AppliedPromo *AppliedPromo    `json:"applied_promo,omitempty"`
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// findLine returns the index of the line holding the product, or -1. A
// product occupies at most one line: re-adding it merges into that line
// and the latest variation selection wins.
func (c *Cart) findLine(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
