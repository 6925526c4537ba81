package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// expiryFeedKey is the Redis key holding the serialized expiry report
const expiryFeedKey = "inventory:expiry_feed"

// RedisExpiryFeedCache caches the expiry alert feed in Redis so multiple
// instances share one assembled report. Cache failures degrade to a miss;
// the feed is always recomputable from the batch table.
type RedisExpiryFeedCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisExpiryFeedCacheOption is a functional option for configuring the cache
type RedisExpiryFeedCacheOption func(*RedisExpiryFeedCache)

// WithRedisCacheLogger sets the logger for the cache
func WithRedisCacheLogger(logger *zap.Logger) RedisExpiryFeedCacheOption {
	return func(c *RedisExpiryFeedCache) {
		c.logger = logger
	}
}

// NewRedisExpiryFeedCache creates a Redis-backed expiry feed cache
func NewRedisExpiryFeedCache(cfg config.RedisConfig, ttl time.Duration, opts ...RedisExpiryFeedCacheOption) (*RedisExpiryFeedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisExpiryFeedCache{
		client:     client,
		ownsClient: true,
		ttl:        ttl,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisExpiryFeedCacheWithClient creates a cache with an existing Redis client.
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisExpiryFeedCacheWithClient(client *redis.Client, ttl time.Duration, opts ...RedisExpiryFeedCacheOption) *RedisExpiryFeedCache {
	cache := &RedisExpiryFeedCache{
		client:     client,
		ownsClient: false,
		ttl:        ttl,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Get retrieves the cached expiry report, reporting a miss on any failure
func (c *RedisExpiryFeedCache) Get(ctx context.Context) (*inventory.ExpiryReport, bool) {
	data, err := c.client.Get(ctx, expiryFeedKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Failed to read expiry feed from cache", zap.Error(err))
		return nil, false
	}

	var report inventory.ExpiryReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Warn("Failed to decode cached expiry feed", zap.Error(err))
		return nil, false
	}
	return &report, true
}

// Set stores the expiry report with the configured TTL
func (c *RedisExpiryFeedCache) Set(ctx context.Context, report *inventory.ExpiryReport) {
	data, err := json.Marshal(report)
	if err != nil {
		c.logger.Warn("Failed to encode expiry feed for cache", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, expiryFeedKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to store expiry feed in cache", zap.Error(err))
	}
}

// Invalidate drops the cached report after a stock mutation
func (c *RedisExpiryFeedCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, expiryFeedKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate expiry feed cache", zap.Error(err))
	}
}

// Close releases the Redis client when this cache owns it
func (c *RedisExpiryFeedCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
