package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storepulse/backend/internal/domain/tenant"
)

// InMemoryTenantCache is a TTL cache for tenant lookups, suitable for
// single-instance deployments. Entries are indexed by shop domain and
// by tenant ID.
type InMemoryTenantCache struct {
	mu       sync.RWMutex
	byDomain map[string]*cacheEntry
	byID     map[uuid.UUID]*cacheEntry
	ttl      time.Duration
	now      func() time.Time
}

type cacheEntry struct {
	tenant    *tenant.Tenant
	expiresAt time.Time
}

// NewInMemoryTenantCache creates an in-memory tenant cache with the given TTL
func NewInMemoryTenantCache(ttl time.Duration) *InMemoryTenantCache {
	return &InMemoryTenantCache{
		byDomain: make(map[string]*cacheEntry),
		byID:     make(map[uuid.UUID]*cacheEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetByDomain returns the cached tenant for a shop domain
func (c *InMemoryTenantCache) GetByDomain(_ context.Context, shopDomain string) (*tenant.Tenant, bool) {
	c.mu.RLock()
	entry, ok := c.byDomain[shopDomain]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.tenant, true
}

// GetByID returns the cached tenant for an ID
func (c *InMemoryTenantCache) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, bool) {
	c.mu.RLock()
	entry, ok := c.byID[id]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.tenant, true
}

// Put stores the tenant under both indexes
func (c *InMemoryTenantCache) Put(_ context.Context, t *tenant.Tenant) {
	if t == nil {
		return
	}
	entry := &cacheEntry{tenant: t, expiresAt: c.now().Add(c.ttl)}

	c.mu.Lock()
	c.byDomain[t.ShopDomain] = entry
	c.byID[t.ID] = entry
	c.mu.Unlock()
}

// Invalidate drops the tenant from both indexes
func (c *InMemoryTenantCache) Invalidate(_ context.Context, t *tenant.Tenant) {
	if t == nil {
		return
	}
	c.mu.Lock()
	delete(c.byDomain, t.ShopDomain)
	delete(c.byID, t.ID)
	c.mu.Unlock()
}

// Ensure InMemoryTenantCache implements tenant.Cache
var _ tenant.Cache = (*InMemoryTenantCache)(nil)
