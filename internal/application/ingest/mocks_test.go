package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storepulse/backend/internal/domain/commerce"
	"github.com/storepulse/backend/internal/domain/ingest"
	"github.com/storepulse/backend/internal/domain/shared"
	"github.com/storepulse/backend/internal/domain/tenant"
)

// MockTenantRepository is a mock implementation of tenant.Repository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByShopDomain(ctx context.Context, shopDomain string) (*tenant.Tenant, error) {
	args := m.Called(ctx, shopDomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindActive(ctx context.Context) ([]tenant.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tenant.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, t *tenant.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// nopCache is a pass-through tenant cache so tests always hit the repository
type nopCache struct{}

func (nopCache) GetByDomain(context.Context, string) (*tenant.Tenant, bool) { return nil, false }
func (nopCache) GetByID(context.Context, uuid.UUID) (*tenant.Tenant, bool)  { return nil, false }
func (nopCache) Put(context.Context, *tenant.Tenant)                        {}
func (nopCache) Invalidate(context.Context, *tenant.Tenant)                 {}

// MockCustomerRepository is a mock implementation of commerce.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*commerce.Customer, error) {
	args := m.Called(ctx, tenantID, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]commerce.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Upsert(ctx context.Context, tenantID uuid.UUID, externalID string, patch commerce.CustomerPatch) (*commerce.Customer, error) {
	args := m.Called(ctx, tenantID, externalID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of commerce.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*commerce.Product, error) {
	args := m.Called(ctx, tenantID, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]commerce.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Product), args.Error(1)
}

func (m *MockProductRepository) Upsert(ctx context.Context, tenantID uuid.UUID, externalID string, patch commerce.ProductPatch) (*commerce.Product, error) {
	args := m.Called(ctx, tenantID, externalID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of commerce.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*commerce.Order, error) {
	args := m.Called(ctx, tenantID, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]commerce.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) Upsert(ctx context.Context, tenantID uuid.UUID, externalID string, patch commerce.OrderPatch) (*commerce.Order, error) {
	args := m.Called(ctx, tenantID, externalID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockFunnelRepository is a mock implementation of commerce.FunnelRepository
type MockFunnelRepository struct {
	mock.Mock
}

func (m *MockFunnelRepository) FindCartByToken(ctx context.Context, tenantID uuid.UUID, token string) (*commerce.CartEvent, error) {
	args := m.Called(ctx, tenantID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CartEvent), args.Error(1)
}

func (m *MockFunnelRepository) UpsertCart(ctx context.Context, tenantID uuid.UUID, token string, patch commerce.CartEventPatch) (*commerce.CartEvent, error) {
	args := m.Called(ctx, tenantID, token, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CartEvent), args.Error(1)
}

func (m *MockFunnelRepository) FindCheckoutByToken(ctx context.Context, tenantID uuid.UUID, token string) (*commerce.CheckoutEvent, error) {
	args := m.Called(ctx, tenantID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CheckoutEvent), args.Error(1)
}

func (m *MockFunnelRepository) UpsertCheckout(ctx context.Context, tenantID uuid.UUID, token string, patch commerce.CheckoutEventPatch) (*commerce.CheckoutEvent, error) {
	args := m.Called(ctx, tenantID, token, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CheckoutEvent), args.Error(1)
}

func (m *MockFunnelRepository) CompleteCheckout(ctx context.Context, tenantID uuid.UUID, token, externalOrderID string, completedAt time.Time) (*commerce.CheckoutEvent, error) {
	args := m.Called(ctx, tenantID, token, externalOrderID, completedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.CheckoutEvent), args.Error(1)
}

func (m *MockFunnelRepository) FindAbandonedCarts(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]commerce.CartEvent, error) {
	args := m.Called(ctx, tenantID, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.CartEvent), args.Error(1)
}

func (m *MockFunnelRepository) FindAbandonedCheckouts(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]commerce.CheckoutEvent, error) {
	args := m.Called(ctx, tenantID, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.CheckoutEvent), args.Error(1)
}

func (m *MockFunnelRepository) MarkCartsAbandoned(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFunnelRepository) MarkCheckoutsAbandoned(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockStorefrontClient is a mock implementation of ingest.StorefrontClient
type MockStorefrontClient struct {
	mock.Mock
}

func (m *MockStorefrontClient) FetchCustomers(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*ingest.Page, error) {
	args := m.Called(ctx, t, sinceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingest.Page), args.Error(1)
}

func (m *MockStorefrontClient) FetchProducts(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*ingest.Page, error) {
	args := m.Called(ctx, t, sinceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingest.Page), args.Error(1)
}

func (m *MockStorefrontClient) FetchOrders(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*ingest.Page, error) {
	args := m.Called(ctx, t, sinceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingest.Page), args.Error(1)
}
