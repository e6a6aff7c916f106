package shops

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/redis"
)

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewCache(redis.NewFromAddr(mr.Addr()))
	ctx := context.Background()

	shop := &models.Shop{ID: uuid.New(), Name: "Karachi Grill"}

	assert.Nil(t, cache.Get(ctx, shop.ID))

	cache.Set(ctx, shop)
	cached := cache.Get(ctx, shop.ID)
	if assert.NotNil(t, cached) {
		assert.Equal(t, shop.Name, cached.Name)
	}

	cache.Invalidate(ctx, shop.ID)
	assert.Nil(t, cache.Get(ctx, shop.ID))
}

func TestNilCacheIsNoOp(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	assert.Nil(t, cache.Get(ctx, uuid.New()))
	cache.Set(ctx, &models.Shop{ID: uuid.New()})
	cache.Invalidate(ctx, uuid.New())
}
