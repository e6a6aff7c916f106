package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	dbtypes "github.com/mahrarshah/foodiehaven-backend/pkg/db/types"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  user_email TEXT NOT NULL,
  user_name TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  items TEXT NOT NULL,
  delivery_timing TEXT NOT NULL,
  delivery_slot TEXT NOT NULL DEFAULT '',
  payment_method TEXT NOT NULL DEFAULT 'cod',
  subtotal INTEGER NOT NULL,
  delivery_fee INTEGER NOT NULL,
  service_fee INTEGER NOT NULL,
  discount INTEGER NOT NULL DEFAULT 0,
  total INTEGER NOT NULL,
  promo_code TEXT,
  order_notes TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  shop_ids TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)

	return db
}

func testOrder(userID uuid.UUID) *models.Order {
	shopID := uuid.New()
	return &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		UserEmail:     "ayesha@example.com",
		UserName:      "Ayesha Khan",
		CustomerName:  "Ayesha Khan",
		CustomerPhone: "03001234567",
		DeliveryAddress: types.Address{
			Type: "home", Name: "Ayesha Khan", Phone: "03001234567", Line1: "House 12",
		},
		Items: types.OrderItems{
			{ProductID: uuid.New(), Name: "Chicken Karahi", UnitPrice: 500, Quantity: 2, ShopID: shopID},
		},
		DeliveryTiming: enums.DeliveryTimingASAP,
		PaymentMethod:  enums.PaymentMethodCOD,
		Subtotal:       1000,
		DeliveryFee:    150,
		ServiceFee:     50,
		Total:          1200,
		Status:         enums.OrderStatusPending,
		ShopIDs:        dbtypes.UUIDArray{shopID},
	}
}

func TestCreateAndFindOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := testOrder(uuid.New())
	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.UserID, loaded.UserID)
	assert.Equal(t, 1200, loaded.Total)
	assert.Equal(t, enums.OrderStatusPending, loaded.Status)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Chicken Karahi", loaded.Items[0].Name)
	require.Len(t, loaded.ShopIDs, 1)
}

func TestListByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	older := testOrder(userID)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := testOrder(userID)
	newer.CreatedAt = time.Now()

	_, err := repo.Create(ctx, older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)
	_, err = repo.Create(ctx, testOrder(uuid.New()))
	require.NoError(t, err)

	listed, err := repo.ListByUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, newer.ID, listed[0].ID)
	assert.Equal(t, older.ID, listed[1].ID)
}

func TestUpdateStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := testOrder(uuid.New())
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, loaded.Status)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	err := repo.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusConfirmed)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderReference(t *testing.T) {
	order := testOrder(uuid.New())
	order.CreatedAt = time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)

	ref := order.Reference()
	assert.Contains(t, ref, "ORD-2025-")
	assert.Len(t, ref, len("ORD-2025-")+6)
}
