// Package cache wraps the Redis client used for rate counters, sessions,
// 2FA challenges, and the scheduled no-TTL sweep.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key does not exist.
var ErrMiss = errors.New("cache: key not found")

// Config carries Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Cache is a thin typed layer over go-redis. Services depend on this rather
// than the raw client so tests can point it at miniredis.
type Cache struct {
	rdb *redis.Client
}

// New connects to Redis. The connection is lazy; use Ping to verify it.
func New(cfg Config) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// NewFromClient wraps an existing client. Used by tests with miniredis.
func NewFromClient(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

// SetJSON stores v JSON-encoded under key. ttl <= 0 stores without expiry.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, key, payload, ttl).Err()
}

// GetJSON fetches key and decodes it into v. Returns ErrMiss when absent.
func (c *Cache) GetJSON(ctx context.Context, key string, v any) error {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, v)
}

// GetString fetches a plain string value. Returns ErrMiss when absent.
func (c *Cache) GetString(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

// SetString stores a plain string value. ttl <= 0 stores without expiry.
func (c *Cache) SetString(ctx context.Context, key, val string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

// Delete removes keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Incr atomically increments a counter and returns the new value.
func (c *Cache) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

// Expire sets the TTL on an existing key.
func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, key, ttl).Err()
}

// TTL returns the remaining lifetime of a key. go-redis reports -1s for keys
// without an expiry and -2s for missing keys.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.TTL(ctx, key).Result()
}

// CleanupNoTTL deletes every key that has no expiry set, skipping keys with
// any of the given prefixes. Keys that expire on their own are left alone.
// Returns the number of keys deleted.
func (c *Cache) CleanupNoTTL(ctx context.Context, skipPrefixes []string) (int, error) {
	var (
		deleted int
		cursor  uint64
	)

	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, "*", 100).Result()
		if err != nil {
			return deleted, err
		}

		for _, key := range keys {
			if hasAnyPrefix(key, skipPrefixes) {
				continue
			}

			ttl, err := c.rdb.TTL(ctx, key).Result()
			if err != nil {
				return deleted, err
			}
			// -1s means no expiry; -2s means the key vanished mid-scan
			if ttl != -1*time.Second {
				continue
			}

			if err := c.rdb.Del(ctx, key).Err(); err != nil {
				return deleted, err
			}
			deleted++
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func hasAnyPrefix(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
