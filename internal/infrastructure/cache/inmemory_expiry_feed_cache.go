package cache

import (
	"context"
	"sync"
	"time"

	"github.com/foodshop/backend/internal/domain/inventory"
)

// InMemoryExpiryFeedCache caches the expiry alert feed in process memory.
// Suitable for single-instance deployments and tests; state is not shared
// across instances.
type InMemoryExpiryFeedCache struct {
	mu        sync.RWMutex
	report    *inventory.ExpiryReport
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemoryExpiryFeedCache creates an in-memory expiry feed cache
func NewInMemoryExpiryFeedCache(ttl time.Duration) *InMemoryExpiryFeedCache {
	return &InMemoryExpiryFeedCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get retrieves the cached report if present and fresh
func (c *InMemoryExpiryFeedCache) Get(_ context.Context) (*inventory.ExpiryReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.report == nil || c.now().After(c.expiresAt) {
		return nil, false
	}
	return c.report, true
}

// Set stores the report with the configured TTL
func (c *InMemoryExpiryFeedCache) Set(_ context.Context, report *inventory.ExpiryReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = report
	c.expiresAt = c.now().Add(c.ttl)
}

// Invalidate drops the cached report
func (c *InMemoryExpiryFeedCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = nil
}
