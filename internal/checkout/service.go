package checkout

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mahrarshah/foodiehaven-backend/internal/cart"
	"github.com/mahrarshah/foodiehaven-backend/internal/pricing"
	"github.com/mahrarshah/foodiehaven-backend/internal/promos"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/metrics"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// asapEstimate is what the buyer sees for immediate orders.
const asapEstimate = "45-60 minutes"

// Fan-out side effect step names, also used as metric labels.
const (
	StepPromoUsage   = "promo_usage"
	StepNotifyShop   = "notify_shop"
	StepShopCounter  = "shop_counter"
	StepOrderHistory = "order_history"
	StepClearCart    = "clear_cart"
)

// SessionCart is the cart read/clear surface checkout needs.
type SessionCart interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// PromoEvaluator re-evaluates the applied code against the snapshot.
type PromoEvaluator interface {
	Apply(ctx context.Context, code string, items []types.OrderItem) (promos.Application, error)
}

// PromoUsage records a redemption after the order is durable.
type PromoUsage interface {
	RecordUsage(ctx context.Context, promoID uuid.UUID) error
}

// OrderStore is the load-bearing order write.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
}

// ShopCounters bumps per-shop order tallies.
type ShopCounters interface {
	IncrementTotalOrders(ctx context.Context, shopID uuid.UUID) error
}

// OrderHistory appends the order to the buyer's recent orders.
type OrderHistory interface {
	AppendRecentOrder(ctx context.Context, userID, orderID uuid.UUID) error
}

// Notifier tells a shop it has a new order.
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, shopID uuid.UUID, order *models.Order) error
}

// SideEffect is the settled result of one best-effort fan-out step. Failed
// steps never fail the placement; they are reported here and logged.
type SideEffect struct {
	Step   string     `json:"step"`
	ShopID *uuid.UUID `json:"shop_id,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// OK reports whether the step succeeded.
func (s SideEffect) OK() bool {
	return s.Error == ""
}

// PlaceOrderInput is a full checkout submission.
type PlaceOrderInput struct {
	SessionID     string
	Buyer         Buyer
	Address       types.Address
	CustomerName  string
	CustomerPhone string
	Timing        enums.DeliveryTiming
	Slot          string
	Notes         string
	AgreedToTerms bool
}

// PlacementResult is what the buyer gets back from a successful placement.
type PlacementResult struct {
	OrderID           uuid.UUID     `json:"order_id"`
	Reference         string        `json:"reference"`
	EstimatedDelivery string        `json:"estimated_delivery"`
	Quote             pricing.Quote `json:"quote"`
	SideEffects       []SideEffect  `json:"side_effects"`
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Cart     SessionCart
	Promos   PromoEvaluator
	Usage    PromoUsage
	Orders   OrderStore
	Shops    ShopCounters
	History  OrderHistory
	Notifier Notifier
	Fees     pricing.FeeSchedule
	Logger   *logger.Logger
	Metrics  *metrics.CheckoutMetrics
}

// Service exposes order placement.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (PlacementResult, error)
}

type service struct {
	cart     SessionCart
	promos   PromoEvaluator
	usage    PromoUsage
	orders   OrderStore
	shops    ShopCounters
	history  OrderHistory
	notifier Notifier
	fees     pricing.FeeSchedule
	logger   *logger.Logger
	metrics  *metrics.CheckoutMetrics
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session cart is required")
	}
	if params.Promos == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo evaluator is required")
	}
	if params.Usage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo usage recorder is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order store is required")
	}
	if params.Shops == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop counters are required")
	}
	if params.History == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order history is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifier is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		cart:     params.Cart,
		promos:   params.Promos,
		usage:    params.Usage,
		orders:   params.Orders,
		shops:    params.Shops,
		history:  params.History,
		notifier: params.Notifier,
		fees:     params.Fees,
		logger:   params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// PlaceOrder runs the checkout pipeline: snapshot the cart, re-price it,
// assemble the order, create it, then fan out the dependent writes.
//
// Only the order create is load-bearing. Every step after it is best-effort
// and sequential, deliberately not a transaction: a stale shop counter or a
// missed notification must never take back an order the buyer already saw
// succeed. Each settled step lands in the result's SideEffects list.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (PlacementResult, error) {
	// Snapshot before anything else; concurrent cart edits from another
	// tab must not leak into this order.
	snapshot, err := s.cart.Load(ctx, input.SessionID)
	if err != nil {
		return PlacementResult{}, err
	}
	if snapshot.IsEmpty() {
		return PlacementResult{}, pkgerrors.New(pkgerrors.CodePrecondition, "cart is empty")
	}

	discount := 0
	var promoCode *string
	var promoID uuid.UUID
	if snapshot.AppliedPromo != nil {
		app, applyErr := s.promos.Apply(ctx, snapshot.AppliedPromo.Code, snapshot.Items)
		if applyErr != nil {
			// The code went stale between display and submission, so the
			// shown total no longer holds. Placement stops before any
			// write; the buyer re-prices the cart and resubmits.
			s.logger.Warn(ctx, "applied promo no longer eligible, rejecting placement")
			return PlacementResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, applyErr, "applied promo is no longer eligible")
		}
		discount = app.Discount
		promoID = app.PromoID
		code := app.Code
		promoCode = &code
	}

	quote := s.fees.Compute(snapshot.Items, input.Timing, discount)

	order, err := Assemble(AssembleInput{
		Buyer:         input.Buyer,
		Items:         snapshot.Items,
		Address:       input.Address,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Timing:        input.Timing,
		Slot:          input.Slot,
		Notes:         input.Notes,
		PromoCode:     promoCode,
		Quote:         quote,
		AgreedToTerms: input.AgreedToTerms,
	})
	if err != nil {
		return PlacementResult{}, err
	}

	// Step 1: the load-bearing write. Failure aborts everything and the
	// cart is left intact for a retry.
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return PlacementResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	ctx = s.logger.WithOrderID(ctx, created.ID.String())
	s.metrics.ObserveOrderPlaced(string(input.Timing), created.Total)

	effects := s.fanOut(ctx, created, promoID, input.SessionID)

	estimate := asapEstimate
	if input.Timing == enums.DeliveryTimingScheduled {
		estimate = created.DeliverySlot
	}

	return PlacementResult{
		OrderID:           created.ID,
		Reference:         created.Reference(),
		EstimatedDelivery: estimate,
		Quote:             quote,
		SideEffects:       effects,
	}, nil
}

// fanOut runs steps 2-6 of the pipeline. Every settled step is recorded;
// failures are logged and counted but never propagated.
func (s *service) fanOut(ctx context.Context, order *models.Order, promoID uuid.UUID, sessionID string) []SideEffect {
	effects := make([]SideEffect, 0, 2*len(order.ShopIDs)+3)
	var failures error

	// Step 2: promo usage. Check-then-act against the usage limit: a race
	// between concurrent checkouts can over-redeem slightly. Accepted.
	if promoID != uuid.Nil {
		effects = append(effects, s.settle(ctx, StepPromoUsage, nil, &failures, func() error {
			return s.usage.RecordUsage(ctx, promoID)
		}))
	}

	// Step 3: notify each shop independently, all-settled.
	for _, shopID := range order.ShopIDs {
		shopID := shopID
		effects = append(effects, s.settle(ctx, StepNotifyShop, &shopID, &failures, func() error {
			return s.notifier.NotifyOrderPlaced(ctx, shopID, order)
		}))
	}

	// Step 4: shop order counters, sequential; a mid-list failure leaves
	// earlier shops bumped and later ones stale.
	for _, shopID := range order.ShopIDs {
		shopID := shopID
		effects = append(effects, s.settle(ctx, StepShopCounter, &shopID, &failures, func() error {
			return s.shops.IncrementTotalOrders(ctx, shopID)
		}))
	}

	// Step 5: buyer order history.
	effects = append(effects, s.settle(ctx, StepOrderHistory, nil, &failures, func() error {
		return s.history.AppendRecentOrder(ctx, order.UserID, order.ID)
	}))

	// Step 6: clear the session cart.
	effects = append(effects, s.settle(ctx, StepClearCart, nil, &failures, func() error {
		return s.cart.Clear(ctx, sessionID)
	}))

	if failures != nil {
		s.logger.Error(ctx, "checkout side effects failed, order stands as placed", failures)
	}
	return effects
}

func (s *service) settle(ctx context.Context, step string, shopID *uuid.UUID, failures *error, fn func() error) SideEffect {
	effect := SideEffect{Step: step, ShopID: shopID}
	if err := fn(); err != nil {
		effect.Error = err.Error()
		*failures = multierr.Append(*failures, err)
		s.metrics.IncSideEffectFailure(step)
	}
	return effect
}
