package promos

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
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
)

func setupPromosTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS promos (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  type TEXT NOT NULL,
  value INTEGER NOT NULL,
  shop_id TEXT,
  min_order INTEGER,
  max_discount INTEGER,
  active INTEGER NOT NULL DEFAULT 1,
  starts_at DATETIME,
  ends_at DATETIME,
  usage_limit INTEGER,
  used_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM promos").Error)

	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	return svc
}

func seedPromo(t *testing.T, db *gorm.DB, promo models.Promo) models.Promo {
	t.Helper()
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	require.NoError(t, db.Create(&promo).Error)
	return promo
}

func TestApplyFixedPromo(t *testing.T) {
	db := setupPromosTestDB(t)
	svc := newTestService(t, db)

	seedPromo(t, db, models.Promo{
		Code: "SAVE50", Type: enums.PromoTypeFixed, Value: 50, Active: true,
	})

	app, err := svc.Apply(context.Background(), "  save50 ", cartWorth1000(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, "SAVE50", app.Code)
	assert.Equal(t, 50, app.Discount)
}

func TestApplyUnknownCode(t *testing.T) {
	db := setupPromosTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Apply(context.Background(), "NOPE", cartWorth1000(uuid.New()))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestApplyExistingButIneligibleCode(t *testing.T) {
	db := setupPromosTestDB(t)
	svc := newTestService(t, db)

	seedPromo(t, db, models.Promo{
		Code: "MIN2000", Type: enums.PromoTypeFixed, Value: 50, Active: true,
		MinOrder: intPtr(2000),
	})

	_, err := svc.Apply(context.Background(), "MIN2000", cartWorth1000(uuid.New()))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestApplyFirstEligibleRecordWins(t *testing.T) {
	db := setupPromosTestDB(t)
	svc := newTestService(t, db)

	base := time.Now().Add(-48 * time.Hour)

	// Oldest record is retired; the middle one should win even though the
	// newest would discount more.
	seedPromo(t, db, models.Promo{
		Code: "STACK", Type: enums.PromoTypeFixed, Value: 500,
		CreatedAt: base,
	})
	seedPromo(t, db, models.Promo{
		Code: "STACK", Type: enums.PromoTypeFixed, Value: 100, Active: true,
		CreatedAt: base.Add(time.Hour),
	})
	seedPromo(t, db, models.Promo{
		Code: "STACK", Type: enums.PromoTypeFixed, Value: 300, Active: true,
		CreatedAt: base.Add(2 * time.Hour),
	})

	app, err := svc.Apply(context.Background(), "STACK", cartWorth1000(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, 100, app.Discount)
}

func TestApplyReplacesRatherThanStacks(t *testing.T) {
	db := setupPromosTestDB(t)
	svc := newTestService(t, db)

	seedPromo(t, db, models.Promo{
		Code: "SAVE50", Type: enums.PromoTypeFixed, Value: 50, Active: true,
	})

	items := cartWorth1000(uuid.New())

	first, err := svc.Apply(context.Background(), "SAVE50", items)
	require.NoError(t, err)
	second, err := svc.Apply(context.Background(), "SAVE50", items)
	require.NoError(t, err)

	// Re-applying yields the same discount, not an accumulated one.
	assert.Equal(t, first.Discount, second.Discount)
}

func TestRecordUsageIncrements(t *testing.T) {
	db := setupPromosTestDB(t)
	svc := newTestService(t, db)

	promo := seedPromo(t, db, models.Promo{
		Code: "COUNTED", Type: enums.PromoTypeFixed, Value: 50, Active: true,
	})

	require.NoError(t, svc.RecordUsage(context.Background(), promo.ID))
	require.NoError(t, svc.RecordUsage(context.Background(), promo.ID))

	var stored models.Promo
	require.NoError(t, db.Where("id = ?", promo.ID).First(&stored).Error)
	assert.Equal(t, 2, stored.UsedCount)
}

func TestRecordUsageCanOvershootLimit(t *testing.T) {
	db := setupPromosTestDB(t)
	svc := newTestService(t, db)

	promo := seedPromo(t, db, models.Promo{
		Code: "LIMIT1", Type: enums.PromoTypeFixed, Value: 50, Active: true,
		UsageLimit: intPtr(1), UsedCount: 1,
	})

	// Eligibility was checked before the order was placed; the increment
	// itself never re-checks the limit.
	require.NoError(t, svc.RecordUsage(context.Background(), promo.ID))

	var stored models.Promo
	require.NoError(t, db.Where("id = ?", promo.ID).First(&stored).Error)
	assert.Equal(t, 2, stored.UsedCount)
}

func TestCreatePromoValidation(t *testing.T) {
	db := setupPromosTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.CreatePromo(ctx, CreatePromoInput{Code: "", Type: enums.PromoTypeFixed, Value: 50})
	assert.Error(t, err)

	_, err = svc.CreatePromo(ctx, CreatePromoInput{Code: "X", Type: enums.PromoType("bogus"), Value: 50})
	assert.Error(t, err)

	_, err = svc.CreatePromo(ctx, CreatePromoInput{Code: "X", Type: enums.PromoTypePercentage, Value: 120})
	assert.Error(t, err)

	created, err := svc.CreatePromo(ctx, CreatePromoInput{
		Code: " welcome10 ", Type: enums.PromoTypePercentage, Value: 10, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", created.Code)
}

func TestDeletePromoEnforcesShopOwnership(t *testing.T) {
	db := setupPromosTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()
	promo := seedPromo(t, db, models.Promo{
		Code: "MINE", Type: enums.PromoTypeFixed, Value: 50, Active: true, ShopID: &owner,
	})

	err := svc.DeletePromo(ctx, promo.ID, &other)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	require.NoError(t, svc.DeletePromo(ctx, promo.ID, &owner))
}
