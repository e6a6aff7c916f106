package promos

import (
	"errors"
	"time"

	"github.com/mahrarshah/foodiehaven-backend/internal/pricing"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

var (
	// ErrInactive is returned when the promo's active flag is off.
	ErrInactive = errors.New("promo not active")
	// ErrOutsideWindow is returned outside the promo's validity window.
	ErrOutsideWindow = errors.New("promo outside validity window")
	// ErrShopMismatch is returned when a shop-bound promo matches no cart line.
	ErrShopMismatch = errors.New("promo not valid for these shops")
	// ErrUsageLimitReached indicates the promo has exhausted its usage quota.
	ErrUsageLimitReached = errors.New("promo usage limit reached")
	// ErrMinOrderUnmet indicates the relevant subtotal is below the minimum.
	ErrMinOrderUnmet = errors.New("promo minimum order not met")
	// ErrZeroDiscount is returned when the computed discount comes out <= 0.
	ErrZeroDiscount = errors.New("promo discount is zero")
)

// Evaluation is the outcome of applying one promo record to a cart.
type Evaluation struct {
	Promo            models.Promo
	RelevantSubtotal int
	Discount         int
}

// Evaluate checks a single promo record against the cart and computes its
// discount. Eligibility predicates run in a fixed order: active flag,
// validity window, shop match, usage quota, minimum order. The relevant
// subtotal is shop-scoped for shop-bound promos and cart-wide otherwise.
func Evaluate(promo models.Promo, items []types.OrderItem, now time.Time) (Evaluation, error) {
	if !promo.Active {
		return Evaluation{}, ErrInactive
	}
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return Evaluation{}, ErrOutsideWindow
	}
	if promo.EndsAt != nil && now.After(*promo.EndsAt) {
		return Evaluation{}, ErrOutsideWindow
	}

	relevant := pricing.Subtotal(items)
	if promo.ShopID != nil {
		matched := false
		for _, item := range items {
			if item.ShopID == *promo.ShopID {
				matched = true
				break
			}
		}
		if !matched {
			return Evaluation{}, ErrShopMismatch
		}
		relevant = pricing.ShopSubtotal(items, *promo.ShopID)
	}

	if promo.UsageLimit != nil && promo.UsedCount >= *promo.UsageLimit {
		return Evaluation{}, ErrUsageLimitReached
	}
	if promo.MinOrder != nil && relevant < *promo.MinOrder {
		return Evaluation{}, ErrMinOrderUnmet
	}

	discount := computeDiscount(promo, relevant)
	if discount <= 0 {
		return Evaluation{}, ErrZeroDiscount
	}

	return Evaluation{
		Promo:            promo,
		RelevantSubtotal: relevant,
		Discount:         discount,
	}, nil
}

func computeDiscount(promo models.Promo, relevant int) int {
	switch promo.Type {
	case enums.PromoTypePercentage:
		discount := pricing.PercentOf(relevant, promo.Value)
		if promo.MaxDiscount != nil && discount > *promo.MaxDiscount {
			discount = *promo.MaxDiscount
		}
		if discount > relevant {
			discount = relevant
		}
		return discount
	case enums.PromoTypeFixed:
		if promo.Value > relevant {
			return relevant
		}
		return promo.Value
	default:
		return 0
	}
}
