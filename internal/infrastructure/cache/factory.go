package cache

import (
	"time"

	appinv "github.com/foodshop/backend/internal/application/inventory"
	"github.com/foodshop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewExpiryFeedCache creates the expiry feed cache for the configured
// deployment. With no Redis address configured the in-process cache is
// used; when Redis is configured but unreachable the in-process cache is
// the fallback so the feed stays available.
func NewExpiryFeedCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) appinv.ExpiryFeedCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr() == "" {
		logger.Info("Redis not configured, using in-memory expiry feed cache")
		return NewInMemoryExpiryFeedCache(ttl)
	}

	redisCache, err := NewRedisExpiryFeedCache(cfg, ttl, WithRedisCacheLogger(logger))
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory expiry feed cache",
			zap.String("addr", cfg.Addr()),
			zap.Error(err))
		return NewInMemoryExpiryFeedCache(ttl)
	}

	logger.Info("Using Redis expiry feed cache", zap.String("addr", cfg.Addr()))
	return redisCache
}

// Ensure both implementations satisfy the application cache port
var (
	_ appinv.ExpiryFeedCache = (*RedisExpiryFeedCache)(nil)
	_ appinv.ExpiryFeedCache = (*InMemoryExpiryFeedCache)(nil)
)
