package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahrarshah/foodiehaven-backend/internal/pricing"
	"github.com/mahrarshah/foodiehaven-backend/internal/promos"
	"github.com/mahrarshah/foodiehaven-backend/pkg/config"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/redis"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

type fakeCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

type fakeShops struct {
	shops map[uuid.UUID]*models.Shop
}

func (f *fakeShops) GetShop(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	s, ok := f.shops[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return s, nil
}

type fakePromos struct {
	applications map[string]promos.Application
}

func (f *fakePromos) Apply(_ context.Context, code string, _ []types.OrderItem) (promos.Application, error) {
	app, ok := f.applications[promos.NormalizeCode(code)]
	if !ok {
		return promos.Application{}, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
	}
	return app, nil
}

type cartFixture struct {
	svc     Service
	store   *Store
	shopID  uuid.UUID
	karahi  *models.Product
	biryani *models.Product
	promos  *fakePromos
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewStore(redis.NewFromAddr(mr.Addr()), config.CartConfig{})
	require.NoError(t, err)

	shopID := uuid.New()
	karahi := &models.Product{
		ID:          uuid.New(),
		ShopID:      shopID,
		Name:        "Chicken Karahi",
		Price:       500,
		IsAvailable: true,
		Variations: types.Variations{
			{Name: "Family Size", Price: 300},
			{Name: "Extra Naan", Price: 50},
		},
	}
	biryani := &models.Product{
		ID:          uuid.New(),
		ShopID:      shopID,
		Name:        "Beef Biryani",
		Price:       350,
		IsAvailable: true,
	}

	fp := &fakePromos{applications: map[string]promos.Application{}}

	svc, err := NewService(ServiceParams{
		Store:    store,
		Products: &fakeCatalog{products: map[uuid.UUID]*models.Product{karahi.ID: karahi, biryani.ID: biryani}},
		Shops:    &fakeShops{shops: map[uuid.UUID]*models.Shop{shopID: {ID: shopID, Name: "Karachi Grill"}}},
		Promos:   fp,
		Fees:     pricing.FeeSchedule{DeliveryFee: 150, ServiceFee: 50},
	})
	require.NoError(t, err)

	return &cartFixture{svc: svc, store: store, shopID: shopID, karahi: karahi, biryani: biryani, promos: fp}
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	view, err := f.svc.AddItem(ctx, "sess", AddItemInput{ProductID: f.karahi.ID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "Chicken Karahi", view.Items[0].Name)
	assert.Equal(t, "Karachi Grill", view.Items[0].ShopName)
	assert.Equal(t, 500, view.Items[0].UnitPrice)
	assert.Equal(t, 1000, view.Quote.Subtotal)
	assert.Equal(t, 1200, view.Quote.Total)
}

func TestAddItemMergesSameSelection(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "sess", AddItemInput{ProductID: f.karahi.ID, Quantity: 1})
	require.NoError(t, err)
	view, err := f.svc.AddItem(ctx, "sess", AddItemInput{ProductID: f.karahi.ID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
}

func TestAddItemMergesAndReplacesVariations(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "sess", AddItemInput{
		ProductID: f.karahi.ID, Quantity: 1, Variations: []string{"Extra Naan"},
	})
	require.NoError(t, err)

	// Same product, new selection: one line, summed quantity, and the
	// latest variation selection wins.
	view, err := f.svc.AddItem(ctx, "sess", AddItemInput{
		ProductID: f.karahi.ID, Quantity: 1, Variations: []string{"Family Size"},
	})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	require.Len(t, view.Items[0].Variations, 1)
	assert.Equal(t, "Family Size", view.Items[0].Variations[0].Name)
	assert.Equal(t, (500+300)*2, view.Quote.Subtotal)
}

func TestAddItemRejectsDuplicateVariationSelection(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.AddItem(context.Background(), "sess", AddItemInput{
		ProductID: f.karahi.ID, Quantity: 1, Variations: []string{"Extra Naan", "extra naan"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddItemRejectsUnknownVariation(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.AddItem(context.Background(), "sess", AddItemInput{
		ProductID: f.karahi.ID, Quantity: 1, Variations: []string{"Gold Leaf"},
	})
	require.Error(t, err)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "sess", AddItemInput{ProductID: f.biryani.ID, Quantity: 1})
	require.NoError(t, err)

	view, err := f.svc.UpdateQuantity(ctx, "sess", f.biryani.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)

	view, err = f.svc.RemoveItem(ctx, "sess", f.biryani.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestApplyPromoReplacesPrevious(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	f.promos.applications["SAVE50"] = promos.Application{PromoID: uuid.New(), Code: "SAVE50", Discount: 50}
	f.promos.applications["SAVE80"] = promos.Application{PromoID: uuid.New(), Code: "SAVE80", Discount: 80}

	_, err := f.svc.AddItem(ctx, "sess", AddItemInput{ProductID: f.karahi.ID, Quantity: 2})
	require.NoError(t, err)

	view, err := f.svc.ApplyPromo(ctx, "sess", "SAVE50")
	require.NoError(t, err)
	assert.Equal(t, 50, view.Quote.Discount)

	view, err = f.svc.ApplyPromo(ctx, "sess", "SAVE80")
	require.NoError(t, err)
	assert.Equal(t, "SAVE80", view.AppliedPromo.Code)
	assert.Equal(t, 80, view.Quote.Discount, "promos replace, they never stack")
}

func TestApplyPromoOnEmptyCart(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.ApplyPromo(context.Background(), "sess", "SAVE50")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestStalePromoDroppedOnView(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	f.promos.applications["SAVE50"] = promos.Application{PromoID: uuid.New(), Code: "SAVE50", Discount: 50}

	_, err := f.svc.AddItem(ctx, "sess", AddItemInput{ProductID: f.karahi.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.svc.ApplyPromo(ctx, "sess", "SAVE50")
	require.NoError(t, err)

	// Promo disappears from the catalog; the next view drops it silently.
	delete(f.promos.applications, "SAVE50")

	view, err := f.svc.GetCart(ctx, "sess", enums.DeliveryTimingASAP)
	require.NoError(t, err)
	assert.Nil(t, view.AppliedPromo)
	assert.Equal(t, 0, view.Quote.Discount)
}

func TestCartSurvivesReload(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "sess", AddItemInput{ProductID: f.karahi.ID, Quantity: 2})
	require.NoError(t, err)

	reloaded, err := f.store.Load(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, f.karahi.ID, reloaded.Items[0].ProductID)
}

func TestClearEmptiesCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "sess", AddItemInput{ProductID: f.karahi.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.svc.Clear(ctx, "sess"))

	view, err := f.svc.GetCart(ctx, "sess", enums.DeliveryTimingASAP)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
