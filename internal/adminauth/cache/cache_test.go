package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return cache.NewFromClient(rdb), mr
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _ := newTestCache(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.SetJSON(ctx, "k", payload{Name: "x", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, c.GetJSON(ctx, "k", &got))
	require.Equal(t, payload{Name: "x", Count: 3}, got)

	require.ErrorIs(t, c.GetJSON(ctx, "missing", &got), cache.ErrMiss)
}

func TestIncrExpire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, mr := newTestCache(t)

	n, err := c.Incr(ctx, "counter")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, c.Expire(ctx, "counter", 5*time.Minute))

	n, err = c.Incr(ctx, "counter")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	mr.FastForward(5 * time.Minute)

	n, err = c.Incr(ctx, "counter")
	require.NoError(t, err)
	require.EqualValues(t, 1, n, "counter should reset after expiry")
}

func TestCleanupNoTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _ := newTestCache(t)

	// No-TTL keys are candidates for deletion
	require.NoError(t, c.SetString(ctx, "stale:one", "v", 0))
	require.NoError(t, c.SetString(ctx, "stale:two", "v", 0))

	// TTL keys and skip-listed keys survive
	require.NoError(t, c.SetString(ctx, "ephemeral", "v", time.Hour))
	require.NoError(t, c.SetString(ctx, "session:abc", "v", 0))
	require.NoError(t, c.SetString(ctx, "rate_limit:login:xyz", "v", 0))

	deleted, err := c.CleanupNoTTL(ctx, []string{"session:", "rate_limit:", "2fa:"})
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	_, err = c.GetString(ctx, "stale:one")
	require.ErrorIs(t, err, cache.ErrMiss)

	for _, key := range []string{"ephemeral", "session:abc", "rate_limit:login:xyz"} {
		_, err := c.GetString(ctx, key)
		require.NoError(t, err, "key %s should survive cleanup", key)
	}
}
