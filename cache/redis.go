// Package cache wraps a Redis connection with JSON-serializing helpers and
// builds cache backend configuration for consuming applications.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

// Client wraps a *redis.Client with JSON value serialization.
//
// The client is constructed explicitly and passed to consumers; there is no
// package-level singleton. Connection lifecycle belongs to the application
// (see config.SetupRedis). Errors from the underlying client propagate
// unmodified apart from wrapping.
type Client struct {
	rdb *redis.Client
}

// New creates a Client around an already-connected *redis.Client.
// Panics if rdb is nil.
func New(rdb *redis.Client) *Client {
	if rdb == nil {
		panic("cache.New: redis client must not be nil")
	}
	return &Client{rdb: rdb}
}

// Set stores value under key with the given TTL. The value is JSON-encoded.
// A zero or negative ttl stores the key without expiry.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache set %q: marshal: %w", key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Get loads the value stored under key into dest, which must be a pointer.
// Returns ErrCacheMiss when the key does not exist.
func (c *Client) Get(ctx context.Context, key string, dest any) error {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %q: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("cache get %q: unmarshal: %w", key, err)
	}
	return nil
}

// Delete removes the given keys and returns how many existed.
func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("cache delete: %w", err)
	}
	return n, nil
}

// Incr increments the integer stored at key by amount and returns the new value.
func (c *Client) Incr(ctx context.Context, key string, amount int64) (int64, error) {
	n, err := c.rdb.IncrBy(ctx, key, amount).Result()
	if err != nil {
		return 0, fmt.Errorf("cache incr %q: %w", key, err)
	}
	return n, nil
}

// Exists reports whether the key is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists %q: %w", key, err)
	}
	return n > 0, nil
}

// Expire sets a TTL on an existing key.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("cache expire %q: %w", key, err)
	}
	return nil
}

// Ping checks the connection to the Redis server.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache ping: %w", err)
	}
	return nil
}
