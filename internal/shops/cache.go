package shops

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/redis"
)

const cacheTTL = 5 * time.Minute

// Cache is a read-through Redis cache for public shop lookups. A nil Cache
// is a no-op: every method degrades to a miss.
type Cache struct {
	redis *redis.Client
}

// NewCache builds a shop cache over the shared Redis client.
func NewCache(client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{redis: client}
}

// Get returns the cached shop, or nil on a miss. Decode failures count as
// misses; the caller will refill from the database.
func (c *Cache) Get(ctx context.Context, id uuid.UUID) *models.Shop {
	if c == nil {
		return nil
	}
	raw, err := c.redis.Get(ctx, c.redis.ShopCacheKey(id.String()))
	if err != nil {
		return nil
	}
	var shop models.Shop
	if err := json.Unmarshal([]byte(raw), &shop); err != nil {
		return nil
	}
	return &shop
}

// Set stores the shop for the cache TTL. Failures are ignored; the cache is
// an optimization, not a source of truth.
func (c *Cache) Set(ctx context.Context, shop *models.Shop) {
	if c == nil || shop == nil {
		return
	}
	payload, err := json.Marshal(shop)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, c.redis.ShopCacheKey(shop.ID.String()), payload, cacheTTL)
}

// Invalidate drops the cached entry after a write.
func (c *Cache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil {
		return
	}
	_ = c.redis.Del(ctx, c.redis.ShopCacheKey(id.String()))
}
