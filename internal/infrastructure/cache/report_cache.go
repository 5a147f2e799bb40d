// Package cache provides the Redis-backed report cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"freshstock/internal/domain/batch"
	"freshstock/pkg/logger"
)

const freshProductsKey = "reports:fresh-products"

var _ batch.ReportCache = (*ReportCache)(nil)

// ReportCache caches the fresh-products listing in Redis. All
// operations are best-effort: a Redis failure is logged and the caller
// falls through to the database.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Config for the report cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New connects to Redis and returns a report cache.
func New(ctx context.Context, cfg Config) (*ReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportCache{client: client, ttl: ttl}, nil
}

// GetFresh implements batch.ReportCache.
func (c *ReportCache) GetFresh(ctx context.Context) ([]*batch.Batch, bool) {
	raw, err := c.client.Get(ctx, freshProductsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "report cache read failed", "error", err)
		}
		return nil, false
	}

	var batches []*batch.Batch
	if err := json.Unmarshal(raw, &batches); err != nil {
		logger.Warn(ctx, "report cache payload corrupt, dropping", "error", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return batches, true
}

// SetFresh implements batch.ReportCache.
func (c *ReportCache) SetFresh(ctx context.Context, batches []*batch.Batch) {
	raw, err := json.Marshal(batches)
	if err != nil {
		logger.Warn(ctx, "report cache marshal failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, freshProductsKey, raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "report cache write failed", "error", err)
	}
}

// Invalidate implements batch.ReportCache. Called whenever stock
// levels move: inbound receipts, cart submissions and drops.
func (c *ReportCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, freshProductsKey).Err(); err != nil {
		logger.Warn(ctx, "report cache invalidation failed", "error", err)
	}
}

// Close releases the Redis connection.
func (c *ReportCache) Close() error {
	return c.client.Close()
}
