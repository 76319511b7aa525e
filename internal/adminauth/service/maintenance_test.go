package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
)

func TestCleanCachePolicy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	svc := service.NewMaintenanceService(e.Store, e.Cache, testLogger, time.Hour, 24*time.Hour)

	// Stale keys without expiry
	require.NoError(t, e.Cache.SetString(ctx, "report:2025", "v", 0))
	require.NoError(t, e.Cache.SetString(ctx, "scratch", "v", 0))

	// Reserved namespaces and TTL-bearing keys must survive
	require.NoError(t, e.Cache.SetString(ctx, "rate_limit:login:abc", "3", 0))
	require.NoError(t, e.Cache.SetString(ctx, "session:xyz", "v", 0))
	require.NoError(t, e.Cache.SetString(ctx, "2fa:challenge:id", "v", 0))
	require.NoError(t, e.Cache.SetString(ctx, "warm", "v", time.Hour))

	svc.CleanCache(ctx)

	for _, key := range []string{"report:2025", "scratch"} {
		_, err := e.Cache.GetString(ctx, key)
		require.ErrorIs(t, err, cache.ErrMiss, "key %s should be swept", key)
	}
	for _, key := range []string{"rate_limit:login:abc", "session:xyz", "2fa:challenge:id", "warm"} {
		_, err := e.Cache.GetString(ctx, key)
		require.NoError(t, err, "key %s must survive the sweep", key)
	}
}

func TestRefreshFilings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	svc := service.NewMaintenanceService(e.Store, e.Cache, testLogger, time.Hour, 24*time.Hour)

	svc.RefreshFilings(ctx)
	// Re-running replaces rather than duplicates
	svc.RefreshFilings(ctx)

	count, err := e.Store.Filings().CountFilings(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestMaintenanceStartStop(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	svc := service.NewMaintenanceService(e.Store, e.Cache, testLogger, time.Hour, 24*time.Hour)

	svc.Start()
	svc.Stop()
}
