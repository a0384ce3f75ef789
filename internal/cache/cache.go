// Package cache provides an optional Redis-backed cache for derived stats
// responses. When no Redis address is configured every operation is a
// nil-safe no-op and stats are computed on every request.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"walletwiz/internal/logger"
)

// Stats cache keys, one per aggregation endpoint.
const (
	KeyTotals            = "stats:totals"
	KeyMonthlyAverages   = "stats:monthly-averages"
	KeyMonthlySeries     = "stats:monthly-series"
	KeyCategoryBreakdown = "stats:category-breakdown"
)

// StatsKeys lists every key a repository mutation must invalidate.
var StatsKeys = []string{KeyTotals, KeyMonthlyAverages, KeyMonthlySeries, KeyCategoryBreakdown}

// StatsCache caches JSON-encoded stats responses with a short TTL.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// New connects to Redis at addr. An empty addr, or a failed ping, yields a
// disabled cache rather than an error: the stats endpoints work without it.
func New(addr, password string, ttl time.Duration) *StatsCache {
	log := logger.Named("cache")
	if addr == "" {
		return &StatsCache{log: log}
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("redis unreachable, stats cache disabled", "addr", addr, "error", err)
		_ = client.Close()
		return &StatsCache{log: log}
	}

	log.Infow("stats cache enabled", "addr", addr, "ttl", ttl)
	return &StatsCache{client: client, ttl: ttl, log: log}
}

// Enabled reports whether a Redis connection is live.
func (c *StatsCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached payload for key, if any.
func (c *StatsCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnw("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Set stores a payload under key with the configured TTL. Failures are
// logged and ignored; the cache is never load-bearing.
func (c *StatsCache) Set(ctx context.Context, key string, payload []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.client.SetEx(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warnw("cache write failed", "key", key, "error", err)
	}
}

// InvalidateStats drops every stats key. Called after each repository
// mutation so cached aggregates never outlive the snapshot they came from.
func (c *StatsCache) InvalidateStats(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, StatsKeys...).Err(); err != nil {
		c.log.Warnw("cache invalidation failed", "error", err)
	}
}

// Close releases the Redis connection.
func (c *StatsCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
