package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
)

func newOrdersService(t *testing.T) (Service, *Repository) {
	t.Helper()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(ServiceParams{Repo: repo})
	require.NoError(t, err)
	return svc, repo
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from enums.OrderStatus
		to   enums.OrderStatus
		ok   bool
	}{
		{enums.OrderStatusPending, enums.OrderStatusConfirmed, true},
		{enums.OrderStatusPending, enums.OrderStatusCancelled, true},
		{enums.OrderStatusPending, enums.OrderStatusDelivered, false},
		{enums.OrderStatusConfirmed, enums.OrderStatusPreparing, true},
		{enums.OrderStatusPreparing, enums.OrderStatusDelivered, true},
		{enums.OrderStatusPreparing, enums.OrderStatusCancelled, false},
		{enums.OrderStatusDelivered, enums.OrderStatusCompleted, true},
		{enums.OrderStatusCompleted, enums.OrderStatusPending, false},
		{enums.OrderStatusCancelled, enums.OrderStatusConfirmed, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	svc, repo := newOrdersService(t)
	ctx := context.Background()

	owner := uuid.New()
	order := testOrder(owner)
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	loaded, err := svc.GetOrder(ctx, order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, loaded.ID)

	_, err = svc.GetOrder(ctx, order.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _ := newOrdersService(t)

	_, err := svc.GetOrder(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateStatusHonorsLifecycle(t *testing.T) {
	svc, repo := newOrdersService(t)
	ctx := context.Background()

	order := testOrder(uuid.New())
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusCompleted, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestUpdateStatusEnforcesShopScope(t *testing.T) {
	svc, repo := newOrdersService(t)
	ctx := context.Background()

	order := testOrder(uuid.New())
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed, &stranger)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	shopID := order.ShopIDs[0]
	updated, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed, &shopID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, updated.Status)
}

func TestCancelOwnOrder(t *testing.T) {
	svc, repo := newOrdersService(t)
	ctx := context.Background()

	owner := uuid.New()
	order := testOrder(owner)
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	cancelled, err := svc.CancelOwnOrder(ctx, order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)

	// Already cancelled; a second cancel conflicts.
	_, err = svc.CancelOwnOrder(ctx, order.ID, owner)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCancelAfterPreparingRejected(t *testing.T) {
	svc, repo := newOrdersService(t)
	ctx := context.Background()

	owner := uuid.New()
	order := testOrder(owner)
	order.Status = enums.OrderStatusPreparing
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	_, err = svc.CancelOwnOrder(ctx, order.ID, owner)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}
