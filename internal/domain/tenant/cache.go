package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Cache is a read-through cache for tenant lookups. Implementations
// never return stale entries past their TTL; a miss is (nil, false),
// never an error, so a degraded cache only costs a repository read.
type Cache interface {
	GetByDomain(ctx context.Context, shopDomain string) (*Tenant, bool)
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, bool)
	Put(ctx context.Context, t *Tenant)
	Invalidate(ctx context.Context, t *Tenant)
}
