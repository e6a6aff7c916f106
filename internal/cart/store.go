package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mahrarshah/foodiehaven-backend/pkg/config"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/redis"
)

// Store persists session carts in Redis.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore builds a cart store using the configured TTL.
func NewStore(client *redis.Client, cfg config.CartConfig) (*Store, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis client is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &Store{redis: client, ttl: ttl}, nil
}

// Load fetches the session's cart. A missing key is an empty cart, not an
// error; a corrupt payload is discarded the same way.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session id is required")
	}

	raw, err := s.redis.Get(ctx, s.redis.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return &Cart{}, nil
	}
	return &cart, nil
}

// Save writes the cart back, refreshing its TTL.
func (s *Store) Save(ctx context.Context, sessionID string, cart *Cart) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session id is required")
	}
	if cart == nil {
		cart = &Cart{}
	}

	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.redis.Set(ctx, s.redis.CartKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return nil
}

// Clear removes the session's cart entirely.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session id is required")
	}
	if err := s.redis.Del(ctx, s.redis.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}
