package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storepulse/backend/internal/domain/ingest"
	"github.com/storepulse/backend/internal/domain/shared"
	"github.com/storepulse/backend/internal/domain/tenant"
)

// TenantDirectory resolves shop domains and tenant IDs to registered
// tenants, with a read-through cache in front of the repository. Every
// webhook delivery resolves its tenant here before anything else runs.
type TenantDirectory struct {
	repo   tenant.Repository
	cache  tenant.Cache
	logger *zap.Logger
}

// NewTenantDirectory creates a tenant directory
func NewTenantDirectory(repo tenant.Repository, cache tenant.Cache, logger *zap.Logger) *TenantDirectory {
	return &TenantDirectory{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ResolveDomain returns the tenant registered for a shop domain
func (d *TenantDirectory) ResolveDomain(ctx context.Context, shopDomain string) (*tenant.Tenant, error) {
	if shopDomain == "" {
		return nil, fmt.Errorf("%w: empty shop domain", ingest.ErrTenantNotFound)
	}

	if t, ok := d.cache.GetByDomain(ctx, shopDomain); ok {
		return t, nil
	}

	t, err := d.repo.FindByShopDomain(ctx, shopDomain)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ingest.ErrTenantNotFound, shopDomain)
		}
		return nil, err
	}

	d.cache.Put(ctx, t)
	return t, nil
}

// ResolveID returns the tenant with the given ID
func (d *TenantDirectory) ResolveID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if t, ok := d.cache.GetByID(ctx, id); ok {
		return t, nil
	}

	t, err := d.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ingest.ErrTenantNotFound, id)
		}
		return nil, err
	}

	d.cache.Put(ctx, t)
	return t, nil
}

// ListActive returns all active tenants, uncached so a freshly
// deactivated tenant drops out of scheduled syncs immediately
func (d *TenantDirectory) ListActive(ctx context.Context) ([]tenant.Tenant, error) {
	return d.repo.FindActive(ctx)
}

// Invalidate drops a tenant from the cache after a credential rotation
// or activation change
func (d *TenantDirectory) Invalidate(ctx context.Context, t *tenant.Tenant) {
	d.cache.Invalidate(ctx, t)
}
