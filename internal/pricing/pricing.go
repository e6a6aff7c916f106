// Package pricing computes cart totals. Everything here is pure: no I/O, no
// clock, no failure modes beyond malformed input, which contributes zero.
package pricing

import (
	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/pkg/config"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// FeeSchedule holds the flat checkout fees in rupees.
type FeeSchedule struct {
	DeliveryFee int
	ServiceFee  int
}

// NewFeeSchedule builds the schedule from checkout configuration.
func NewFeeSchedule(cfg config.CheckoutConfig) FeeSchedule {
	return FeeSchedule{
		DeliveryFee: cfg.DeliveryFee,
		ServiceFee:  cfg.ServiceFee,
	}
}

// Quote is the complete price breakdown shown to the buyer and persisted on
// the order. Total always equals Subtotal + DeliveryFee + ServiceFee - Discount.
type Quote struct {
	Subtotal    int `json:"subtotal"`
	DeliveryFee int `json:"delivery_fee"`
	ServiceFee  int `json:"service_fee"`
	Discount    int `json:"discount"`
	Total       int `json:"total"`
}

// LineTotal returns the price of one cart line: unit price plus the selected
// variation prices, times quantity. A zero quantity is read as one (the item
// is in the cart, after all); negative inputs contribute nothing.
func LineTotal(item types.OrderItem) int {
	qty := item.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return 0
	}

	unit := item.UnitPrice
	if unit < 0 {
		unit = 0
	}
	for _, v := range item.Variations {
		if v.Price > 0 {
			unit += v.Price
		}
	}
	return unit * qty
}

// Subtotal sums line totals across the whole cart.
func Subtotal(items []types.OrderItem) int {
	total := 0
	for _, item := range items {
		total += LineTotal(item)
	}
	return total
}

// ShopSubtotal sums line totals for a single shop's items.
func ShopSubtotal(items []types.OrderItem, shopID uuid.UUID) int {
	total := 0
	for _, item := range items {
		if item.ShopID == shopID {
			total += LineTotal(item)
		}
	}
	return total
}

// ShopIDs returns the distinct shop ids touched by the cart, in order of
// first appearance.
func ShopIDs(items []types.OrderItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ShopID == uuid.Nil {
			continue
		}
		if _, ok := seen[item.ShopID]; ok {
			continue
		}
		seen[item.ShopID] = struct{}{}
		ids = append(ids, item.ShopID)
	}
	return ids
}

// Compute builds the full quote for a cart. The delivery fee applies only to
// ASAP orders; scheduled orders carry none. The service fee is unconditional.
// The discount is clamped to [0, subtotal] so the total can never go negative.
func (f FeeSchedule) Compute(items []types.OrderItem, timing enums.DeliveryTiming, discount int) Quote {
	subtotal := Subtotal(items)

	deliveryFee := 0
	if timing == enums.DeliveryTimingASAP {
		deliveryFee = f.DeliveryFee
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		ServiceFee:  f.ServiceFee,
		Discount:    discount,
		Total:       subtotal + deliveryFee + f.ServiceFee - discount,
	}
}

// RoundHalfUp divides num by den rounding halves away from zero toward
// positive infinity. Both arguments must be non-negative; den must be > 0.
func RoundHalfUp(num, den int) int {
	if num <= 0 || den <= 0 {
		return 0
	}
	return (num + den/2) / den
}

// PercentOf returns pct percent of amount, rounded half-up.
func PercentOf(amount, pct int) int {
	if amount <= 0 || pct <= 0 {
		return 0
	}
	return RoundHalfUp(amount*pct, 100)
}
