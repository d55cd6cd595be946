package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for tenants
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByShopDomain(ctx context.Context, shopDomain string) (*Tenant, error)
	FindActive(ctx context.Context) ([]Tenant, error)
	Save(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}
