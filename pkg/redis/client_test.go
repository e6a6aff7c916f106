package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return NewFromAddr(srv.Addr())
}

func TestKeyNamespacing(t *testing.T) {
	t.Parallel()

	c := &Client{}
	assert.Equal(t, "fh:cart:session-1", c.CartKey("session-1"))
	assert.Equal(t, "fh:shop:abc", c.ShopCacheKey("abc"))
	assert.Equal(t, "fh:idempotency:checkout:key-1", c.IdempotencyKey("checkout", "key-1"))
}

func TestSetGetDel(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "fh:test", "value", time.Minute))

	got, err := c.Get(ctx, "fh:test")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	require.NoError(t, c.Del(ctx, "fh:test"))
	_, err = c.Get(ctx, "fh:test")
	assert.ErrorIs(t, err, Nil)
}

func TestSetNXOnlyFirstWins(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "fh:once", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "fh:once", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFixedWindowAllow(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := c.FixedWindowAllow(ctx, "scope", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, count, err := c.FixedWindowAllow(ctx, "scope", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.EqualValues(t, 4, count)
}
