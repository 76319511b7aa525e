// Package rate implements the identity-keyed fixed-window counters that gate
// every credentialed operation. Counters live in Redis so all instances share
// the same view of an attacker.
package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
)

// ErrRateLimited is returned when an identity has exhausted its attempts for
// a purpose within the current window.
var ErrRateLimited = errors.New("rate: too many attempts")

const (
	// DefaultThreshold is the number of attempts allowed per window.
	DefaultThreshold = 5
	// DefaultWindow is the fixed window length. The window starts at the
	// first attempt and is never extended by later ones.
	DefaultWindow = 5 * time.Minute
)

// Limiter counts attempts per (purpose, identity) pair. An attempt that
// arrives when the counter already sits at the threshold is rejected without
// being counted, so the window expires on schedule even under constant load.
type Limiter struct {
	cache     *cache.Cache
	threshold int64
	window    time.Duration
}

// New returns a Limiter with the given bounds. Zero values fall back to the
// defaults (5 attempts per 5 minutes).
func New(c *cache.Cache, threshold int, window time.Duration) *Limiter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{cache: c, threshold: int64(threshold), window: window}
}

func key(purpose, identity string) string {
	return fmt.Sprintf("rate_limit:%s:%s", purpose, identity)
}

// Allow records one attempt for the identity under the purpose. It returns
// ErrRateLimited when the attempt exceeds the threshold. Redis errors are
// returned as-is; callers decide whether to fail open or closed.
func (l *Limiter) Allow(ctx context.Context, purpose, identity string) error {
	k := key(purpose, identity)

	// A saturated counter rejects without incrementing so the window keeps
	// its original expiry even under constant hammering
	current, err := l.Attempts(ctx, purpose, identity)
	if err != nil {
		return err
	}
	if current >= l.threshold {
		return ErrRateLimited
	}

	count, err := l.cache.Incr(ctx, k)
	if err != nil {
		return err
	}

	// First attempt opens the window; it is not refreshed afterwards
	if count == 1 {
		if err := l.cache.Expire(ctx, k, l.window); err != nil {
			return err
		}
	}

	if count > l.threshold {
		return ErrRateLimited
	}
	return nil
}

// Clear resets the counter after a terminal success so a legitimate user who
// fumbled a few attempts starts fresh.
func (l *Limiter) Clear(ctx context.Context, purpose, identity string) error {
	return l.cache.Delete(ctx, key(purpose, identity))
}

// Attempts reports the current count in the window. Zero when no window is
// open.
func (l *Limiter) Attempts(ctx context.Context, purpose, identity string) (int64, error) {
	val, err := l.cache.GetString(ctx, key(purpose, identity))
	if errors.Is(err, cache.ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var n int64
	if _, err := fmt.Sscanf(val, "%d", &n); err != nil {
		return 0, err
	}
	return n, nil
}
