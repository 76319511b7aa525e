package rate_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
)

func newTestLimiter(t *testing.T) (*rate.Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return rate.New(cache.NewFromClient(rdb), 5, 5*time.Minute), mr
}

func TestAllowBlocksSixthAttempt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "login", "hash-a"), "attempt %d should pass", i+1)
	}

	require.ErrorIs(t, l.Allow(ctx, "login", "hash-a"), rate.ErrRateLimited)
}

func TestWindowExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, mr := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "login", "hash-b"))
	}
	require.ErrorIs(t, l.Allow(ctx, "login", "hash-b"), rate.ErrRateLimited)

	mr.FastForward(5 * time.Minute)

	require.NoError(t, l.Allow(ctx, "login", "hash-b"), "fresh window after expiry")
}

func TestBlockedAttemptsDoNotExtendWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, mr := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "login", "hash-c"))
	}

	// Keep hammering past the threshold; the counter must not grow and the
	// window must not be refreshed
	mr.FastForward(4 * time.Minute)
	for i := 0; i < 10; i++ {
		require.ErrorIs(t, l.Allow(ctx, "login", "hash-c"), rate.ErrRateLimited)
	}

	n, err := l.Attempts(ctx, "login", "hash-c")
	require.NoError(t, err)
	require.EqualValues(t, 5, n)

	mr.FastForward(time.Minute)
	require.NoError(t, l.Allow(ctx, "login", "hash-c"))
}

func TestClearResetsCounter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "reset", "hash-d"))
	}
	require.ErrorIs(t, l.Allow(ctx, "reset", "hash-d"), rate.ErrRateLimited)

	require.NoError(t, l.Clear(ctx, "reset", "hash-d"))
	require.NoError(t, l.Allow(ctx, "reset", "hash-d"))
}

func TestPurposesAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "login", "hash-e"))
	}
	require.ErrorIs(t, l.Allow(ctx, "login", "hash-e"), rate.ErrRateLimited)

	require.NoError(t, l.Allow(ctx, "reset", "hash-e"), "other purposes unaffected")
	require.NoError(t, l.Allow(ctx, "login", "hash-f"), "other identities unaffected")
}
