package checkout

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahrarshah/foodiehaven-backend/internal/cart"
	"github.com/mahrarshah/foodiehaven-backend/internal/pricing"
	"github.com/mahrarshah/foodiehaven-backend/internal/promos"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

type memoryCart struct {
	carts   map[string]*cart.Cart
	cleared []string
}

func (m *memoryCart) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	c, ok := m.carts[sessionID]
	if !ok {
		return &cart.Cart{}, nil
	}
	return c, nil
}

func (m *memoryCart) Clear(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	m.cleared = append(m.cleared, sessionID)
	return nil
}

type stubPromos struct {
	applications map[string]promos.Application
}

func (s *stubPromos) Apply(_ context.Context, code string, _ []types.OrderItem) (promos.Application, error) {
	app, ok := s.applications[promos.NormalizeCode(code)]
	if !ok {
		return promos.Application{}, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
	}
	return app, nil
}

type stubUsage struct {
	recorded []uuid.UUID
	err      error
}

func (s *stubUsage) RecordUsage(_ context.Context, promoID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = append(s.recorded, promoID)
	return nil
}

type stubOrders struct {
	created []*models.Order
	err     error
}

func (s *stubOrders) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	order.ID = uuid.New()
	s.created = append(s.created, order)
	return order, nil
}

type stubCounters struct {
	bumped []uuid.UUID
	err    error
}

func (s *stubCounters) IncrementTotalOrders(_ context.Context, shopID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.bumped = append(s.bumped, shopID)
	return nil
}

type stubHistory struct {
	appended []uuid.UUID
	err      error
}

func (s *stubHistory) AppendRecentOrder(_ context.Context, _, orderID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.appended = append(s.appended, orderID)
	return nil
}

type stubNotifier struct {
	notified []uuid.UUID
	err      error
}

func (s *stubNotifier) NotifyOrderPlaced(_ context.Context, shopID uuid.UUID, _ *models.Order) error {
	if s.err != nil {
		return s.err
	}
	s.notified = append(s.notified, shopID)
	return nil
}

type checkoutFixture struct {
	svc      Service
	cart     *memoryCart
	promos   *stubPromos
	usage    *stubUsage
	orders   *stubOrders
	counters *stubCounters
	history  *stubHistory
	notifier *stubNotifier
	shopID   uuid.UUID
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	shopID := uuid.New()
	f := &checkoutFixture{
		cart: &memoryCart{carts: map[string]*cart.Cart{
			"sess": {Items: types.OrderItems{
				{ProductID: uuid.New(), Name: "Chicken Karahi", UnitPrice: 500, Quantity: 2, ShopID: shopID, ShopName: "Karachi Grill"},
			}},
		}},
		promos:   &stubPromos{applications: map[string]promos.Application{}},
		usage:    &stubUsage{},
		orders:   &stubOrders{},
		counters: &stubCounters{},
		history:  &stubHistory{},
		notifier: &stubNotifier{},
		shopID:   shopID,
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})

	svc, err := NewService(ServiceParams{
		Cart:     f.cart,
		Promos:   f.promos,
		Usage:    f.usage,
		Orders:   f.orders,
		Shops:    f.counters,
		History:  f.history,
		Notifier: f.notifier,
		Fees:     pricing.FeeSchedule{DeliveryFee: 150, ServiceFee: 50},
		Logger:   logg,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func placeOrderInput() PlaceOrderInput {
	return PlaceOrderInput{
		SessionID:     "sess",
		Buyer:         Buyer{ID: uuid.New(), Email: "ayesha@example.com", FullName: "Ayesha Khan"},
		Address:       types.Address{Type: "home", Name: "Ayesha Khan", Phone: "03001234567", Line1: "House 12, Street 4"},
		CustomerName:  "Ayesha Khan",
		CustomerPhone: "03001234567",
		Timing:        enums.DeliveryTimingASAP,
		AgreedToTerms: true,
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	f := newCheckoutFixture(t)

	result, err := f.svc.PlaceOrder(context.Background(), placeOrderInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.OrderID)
	assert.Contains(t, result.Reference, "ORD-")
	assert.Equal(t, "45-60 minutes", result.EstimatedDelivery)
	assert.Equal(t, 1200, result.Quote.Total)

	require.Len(t, f.orders.created, 1)
	assert.Equal(t, []uuid.UUID{f.shopID}, f.notifier.notified)
	assert.Equal(t, []uuid.UUID{f.shopID}, f.counters.bumped)
	assert.Len(t, f.history.appended, 1)
	assert.Equal(t, []string{"sess"}, f.cart.cleared)

	for _, effect := range result.SideEffects {
		assert.True(t, effect.OK(), "step %s should settle clean", effect.Step)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	input := placeOrderInput()
	input.SessionID = "missing"

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodePrecondition, pkgerrors.As(err).Code())
	assert.Empty(t, f.orders.created)
}

func TestPlaceOrderCreateFailureRetainsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.orders.err = errors.New("connection reset")

	_, err := f.svc.PlaceOrder(context.Background(), placeOrderInput())
	require.Error(t, err)

	// Nothing downstream ran and the cart is still there for a retry.
	assert.Empty(t, f.notifier.notified)
	assert.Empty(t, f.counters.bumped)
	assert.Empty(t, f.cart.cleared)
	reloaded, _ := f.cart.Load(context.Background(), "sess")
	assert.False(t, reloaded.IsEmpty())
}

func TestPlaceOrderSucceedsWhenNotifierFails(t *testing.T) {
	f := newCheckoutFixture(t)
	f.notifier.err = errors.New("smtp down")

	result, err := f.svc.PlaceOrder(context.Background(), placeOrderInput())
	require.NoError(t, err, "a notification failure must not fail the placement")

	assert.NotEqual(t, uuid.Nil, result.OrderID)
	assert.Equal(t, []string{"sess"}, f.cart.cleared, "cart is still cleared")

	var notifyEffect *SideEffect
	for i := range result.SideEffects {
		if result.SideEffects[i].Step == StepNotifyShop {
			notifyEffect = &result.SideEffects[i]
		}
	}
	require.NotNil(t, notifyEffect)
	assert.False(t, notifyEffect.OK())
	assert.Contains(t, notifyEffect.Error, "smtp down")
}

func TestPlaceOrderRecordsPromoUsage(t *testing.T) {
	f := newCheckoutFixture(t)
	promoID := uuid.New()
	f.promos.applications["SAVE50"] = promos.Application{PromoID: promoID, Code: "SAVE50", Discount: 50}
	f.cart.carts["sess"].AppliedPromo = &cart.AppliedPromo{PromoID: promoID, Code: "SAVE50", Discount: 50}

	result, err := f.svc.PlaceOrder(context.Background(), placeOrderInput())
	require.NoError(t, err)

	assert.Equal(t, 50, result.Quote.Discount)
	assert.Equal(t, 1150, result.Quote.Total)
	assert.Equal(t, []uuid.UUID{promoID}, f.usage.recorded)
	require.Len(t, f.orders.created, 1)
	require.NotNil(t, f.orders.created[0].PromoCode)
	assert.Equal(t, "SAVE50", *f.orders.created[0].PromoCode)
}

func TestPlaceOrderSwallowsPromoUsageFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	promoID := uuid.New()
	f.promos.applications["SAVE50"] = promos.Application{PromoID: promoID, Code: "SAVE50", Discount: 50}
	f.cart.carts["sess"].AppliedPromo = &cart.AppliedPromo{PromoID: promoID, Code: "SAVE50", Discount: 50}
	f.usage.err = errors.New("catalog timeout")

	result, err := f.svc.PlaceOrder(context.Background(), placeOrderInput())
	require.NoError(t, err)

	assert.Equal(t, 50, result.Quote.Discount, "the order keeps its discount")
	var usageEffect *SideEffect
	for i := range result.SideEffects {
		if result.SideEffects[i].Step == StepPromoUsage {
			usageEffect = &result.SideEffects[i]
		}
	}
	require.NotNil(t, usageEffect)
	assert.False(t, usageEffect.OK())
}

func TestPlaceOrderRejectsStalePromo(t *testing.T) {
	f := newCheckoutFixture(t)
	// The cart references a promo that no longer resolves.
	f.cart.carts["sess"].AppliedPromo = &cart.AppliedPromo{PromoID: uuid.New(), Code: "GONE", Discount: 50}

	_, err := f.svc.PlaceOrder(context.Background(), placeOrderInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// No writes: the cart survives for a re-priced resubmission.
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.usage.recorded)
	assert.NotNil(t, f.cart.carts["sess"])
}

func TestPlaceOrderScheduledDelivery(t *testing.T) {
	f := newCheckoutFixture(t)
	input := placeOrderInput()
	input.Timing = enums.DeliveryTimingScheduled
	input.Slot = "Tomorrow 1:00 PM - 2:00 PM"

	result, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "Tomorrow 1:00 PM - 2:00 PM", result.EstimatedDelivery)
	assert.Equal(t, 0, result.Quote.DeliveryFee, "scheduled orders carry no delivery fee")
	assert.Equal(t, 1050, result.Quote.Total)
}

func TestPlaceOrderMultiShopFanOut(t *testing.T) {
	f := newCheckoutFixture(t)
	shopB := uuid.New()
	f.cart.carts["sess"].Items = append(f.cart.carts["sess"].Items,
		types.OrderItem{ProductID: uuid.New(), Name: "Kheer", UnitPrice: 200, Quantity: 1, ShopID: shopB},
	)

	result, err := f.svc.PlaceOrder(context.Background(), placeOrderInput())
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{f.shopID, shopB}, f.notifier.notified)
	assert.ElementsMatch(t, []uuid.UUID{f.shopID, shopB}, f.counters.bumped)
	assert.Equal(t, 1200, result.Quote.Subtotal)
	assert.Equal(t, 1400, result.Quote.Total)
}

func TestPlaceOrderCounterFailureDoesNotBlockHistory(t *testing.T) {
	f := newCheckoutFixture(t)
	f.counters.err = errors.New("lock timeout")

	result, err := f.svc.PlaceOrder(context.Background(), placeOrderInput())
	require.NoError(t, err)

	assert.Len(t, f.history.appended, 1, "later steps still run")
	assert.Equal(t, []string{"sess"}, f.cart.cleared)

	failed := 0
	for _, effect := range result.SideEffects {
		if !effect.OK() {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}
