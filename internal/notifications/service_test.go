package notifications

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  body TEXT NOT NULL DEFAULT '',
  order_id TEXT,
  read INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM notifications").Error)

	return db
}

type recordedEvent struct {
	eventType string
	payload   any
}

type recordingSink struct {
	events []recordedEvent
	err    error
}

func (s *recordingSink) Publish(_ context.Context, eventType string, payload any) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, recordedEvent{eventType: eventType, payload: payload})
	return nil
}

func newNotificationsService(t *testing.T) (Service, *recordingSink) {
	t.Helper()

	repo := NewRepository(setupNotificationsTestDB(t))
	sink := &recordingSink{}
	logg := logger.New(logger.Options{ServiceName: "notifications-test", Output: &bytes.Buffer{}})

	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Sink:   sink,
		Logger: logg,
		Now:    func() time.Time { return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	return svc, sink
}

func placedOrder(shopID uuid.UUID) *models.Order {
	return &models.Order{
		ID:           uuid.New(),
		CustomerName: "Ayesha Khan",
		CreatedAt:    time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		Items: types.OrderItems{
			{ProductID: uuid.New(), Name: "Chicken Karahi", UnitPrice: 500, Quantity: 2, ShopID: shopID},
			{ProductID: uuid.New(), Name: "From someone else", UnitPrice: 900, Quantity: 1, ShopID: uuid.New()},
		},
	}
}

func TestNotifyOrderPlacedWritesInboxRow(t *testing.T) {
	svc, sink := newNotificationsService(t)
	shopID := uuid.New()
	order := placedOrder(shopID)

	require.NoError(t, svc.NotifyOrderPlaced(context.Background(), shopID, order))

	inbox, err := svc.ListShopNotifications(context.Background(), shopID, false, 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	entry := inbox[0]
	assert.Equal(t, enums.NotificationTypeOrderPlaced, entry.Type)
	assert.Contains(t, entry.Title, order.Reference())
	assert.Contains(t, entry.Body, "2 item(s)")
	assert.Contains(t, entry.Body, "Rs. 1000")
	require.NotNil(t, entry.OrderID)
	assert.Equal(t, order.ID, *entry.OrderID)
	assert.False(t, entry.Read)

	require.Len(t, sink.events, 1)
	event, ok := sink.events[0].payload.(OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, EventOrderPlaced, sink.events[0].eventType)
	assert.Equal(t, shopID, event.ShopID)
	assert.Equal(t, 1000, event.ShopTotal)
	assert.Equal(t, 2, event.ItemCount)
}

func TestNotifyOrderPlacedSurvivesPublishFailure(t *testing.T) {
	svc, sink := newNotificationsService(t)
	sink.err = assert.AnError
	shopID := uuid.New()

	require.NoError(t, svc.NotifyOrderPlaced(context.Background(), shopID, placedOrder(shopID)))

	inbox, err := svc.ListShopNotifications(context.Background(), shopID, false, 10)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestNotifyShopVerified(t *testing.T) {
	svc, sink := newNotificationsService(t)
	email := "grill@example.com"
	shop := &models.Shop{
		ID:     uuid.New(),
		Name:   "Karachi Grill",
		Email:  &email,
		Status: enums.ShopStatusVerified,
	}

	require.NoError(t, svc.NotifyShopVerified(context.Background(), shop))

	inbox, err := svc.ListShopNotifications(context.Background(), shop.ID, false, 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, enums.NotificationTypeShopVerified, inbox[0].Type)

	require.Len(t, sink.events, 1)
	event, ok := sink.events[0].payload.(ShopModerationEvent)
	require.True(t, ok)
	assert.Equal(t, "grill@example.com", event.ShopEmail)
	assert.Equal(t, string(enums.ShopStatusVerified), event.Status)
}

func TestUnreadFlow(t *testing.T) {
	svc, _ := newNotificationsService(t)
	shopID := uuid.New()

	require.NoError(t, svc.NotifyOrderPlaced(context.Background(), shopID, placedOrder(shopID)))
	require.NoError(t, svc.NotifyOrderPlaced(context.Background(), shopID, placedOrder(shopID)))

	count, err := svc.CountUnread(context.Background(), shopID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	inbox, err := svc.ListShopNotifications(context.Background(), shopID, true, 10)
	require.NoError(t, err)
	require.Len(t, inbox, 2)

	require.NoError(t, svc.MarkRead(context.Background(), shopID, inbox[0].ID))

	count, err = svc.CountUnread(context.Background(), shopID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	cleared, err := svc.MarkAllRead(context.Background(), shopID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cleared)

	count, err = svc.CountUnread(context.Background(), shopID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMarkReadScopedToShop(t *testing.T) {
	svc, _ := newNotificationsService(t)
	shopID := uuid.New()

	require.NoError(t, svc.NotifyOrderPlaced(context.Background(), shopID, placedOrder(shopID)))

	inbox, err := svc.ListShopNotifications(context.Background(), shopID, false, 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	err = svc.MarkRead(context.Background(), uuid.New(), inbox[0].ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
