package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/pkg/idx"
)

// CacheSkipPrefixes lists key namespaces the no-TTL sweep must never touch.
// Rate counters, sessions, and 2FA challenges manage their own expiry.
var CacheSkipPrefixes = []string{"rate_limit:", "session:", "2fa:"}

// DefaultFundName seeds the filings refresh when no fund is configured.
const DefaultFundName = "Example Hedge Fund"

// MaintenanceService runs the two background jobs: the Redis no-TTL sweep
// and the quarterly filings refresh. Each job has its own ticker so their
// cadences are independent.
type MaintenanceService struct {
	Store  store.Store
	Cache  *cache.Cache
	Logger *slog.Logger

	CacheInterval   time.Duration
	FilingsInterval time.Duration
	FundName        string

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewMaintenanceService creates the maintenance worker. Non-positive
// intervals default to hourly for the cache sweep and daily for filings.
func NewMaintenanceService(st store.Store, c *cache.Cache, logger *slog.Logger, cacheInterval, filingsInterval time.Duration) *MaintenanceService {
	if cacheInterval <= 0 {
		cacheInterval = time.Hour
	}
	if filingsInterval <= 0 {
		filingsInterval = 24 * time.Hour
	}

	return &MaintenanceService{
		Store:           st,
		Cache:           c,
		Logger:          logger,
		CacheInterval:   cacheInterval,
		FilingsInterval: filingsInterval,
		FundName:        DefaultFundName,
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *MaintenanceService) Start() {
	go s.run()
	s.Logger.Info("maintenance service started",
		"cache_interval", s.CacheInterval,
		"filings_interval", s.FilingsInterval,
	)
}

// Stop gracefully shuts down the worker. Blocks until any in-progress job
// finishes.
func (s *MaintenanceService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("maintenance service stopped")
}

func (s *MaintenanceService) run() {
	defer close(s.doneCh)

	cacheTicker := time.NewTicker(s.CacheInterval)
	defer cacheTicker.Stop()

	filingsTicker := time.NewTicker(s.FilingsInterval)
	defer filingsTicker.Stop()

	// Run both jobs immediately on startup
	s.CleanCache(context.Background())
	s.RefreshFilings(context.Background())

	for {
		select {
		case <-cacheTicker.C:
			s.CleanCache(context.Background())
		case <-filingsTicker.C:
			s.RefreshFilings(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// CleanCache deletes Redis keys that carry no expiry, sparing the reserved
// namespaces. Keys with a TTL are left to expire on their own.
func (s *MaintenanceService) CleanCache(ctx context.Context) {
	deleted, err := s.Cache.CleanupNoTTL(ctx, CacheSkipPrefixes)
	if err != nil {
		s.Logger.Error("cache sweep failed", "error", err)
		return
	}
	s.Logger.Info("cache sweep completed", "deleted", deleted)
}

// RefreshFilings upserts the current quarter's filing for the configured
// fund.
func (s *MaintenanceService) RefreshFilings(ctx context.Context) {
	now := time.Now().UTC()
	quarter := fmt.Sprintf("%dQ%d", now.Year(), (int(now.Month())-1)/3+1)

	err := s.Store.Filings().UpsertFiling(ctx, domain.Filing{
		ID:       idx.New().String(),
		FundName: s.FundName,
		Quarter:  quarter,
		Holdings: []domain.Holding{},
	})
	if err != nil {
		s.Logger.Error("filings refresh failed", "error", err)
		return
	}
	s.Logger.Info("filings refreshed", "fund", s.FundName, "quarter", quarter)
}
