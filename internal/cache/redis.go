// Package cache holds job-search pages in Redis. A missing or failing Redis
// turns every operation into a miss so searches go straight to the job API.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a JSON cache. The zero value and a nil *Redis are valid, always-miss caches.
type Redis struct {
	client *redis.Client
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

// NewRedis connects to redisURL. When the URL is empty, unparsable or the
// server does not answer a ping, it returns a bypassing cache and logs why.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) *Redis {
	if redisURL == "" {
		return &Redis{ttl: ttl}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("invalid REDIS_URL, search cache disabled", "error", err)
		return &Redis{ttl: ttl}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis unavailable, search cache disabled", "error", err)
		_ = client.Close()
		return &Redis{ttl: ttl}
	}

	return &Redis{client: client, ttl: ttl}
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Enabled reports whether a Redis connection backs the cache.
func (r *Redis) Enabled() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		slog.Warn("redis error, bypassing search cache", "error", err)
	}
}

// GetJSON loads key into out. A miss returns (false, nil).
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}

	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value under key for the cache's TTL.
func (r *Redis) SetJSON(ctx context.Context, key string, value any) error {
	if !r.Enabled() {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		r.warnOnce(err)
		return err
	}
	return nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the connection.
func (r *Redis) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}
