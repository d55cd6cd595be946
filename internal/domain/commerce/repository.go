package commerce

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storepulse/backend/internal/domain/shared"
)

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Customer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)
	// Upsert creates the customer if absent, otherwise merges the patch
	// into the existing row. Duplicate concurrent deliveries converge to
	// a single row.
	Upsert(ctx context.Context, tenantID uuid.UUID, externalID string, patch CustomerPatch) (*Customer, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	Upsert(ctx context.Context, tenantID uuid.UUID, externalID string, patch ProductPatch) (*Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Order, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)
	// Upsert creates or merges the order; when the patch carries items
	// they replace the stored ones in the same transaction.
	Upsert(ctx context.Context, tenantID uuid.UUID, externalID string, patch OrderPatch) (*Order, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// FunnelRepository defines persistence operations for cart and checkout
// funnel events, keyed by provider token within the tenant.
type FunnelRepository interface {
	FindCartByToken(ctx context.Context, tenantID uuid.UUID, token string) (*CartEvent, error)
	UpsertCart(ctx context.Context, tenantID uuid.UUID, token string, patch CartEventPatch) (*CartEvent, error)

	FindCheckoutByToken(ctx context.Context, tenantID uuid.UUID, token string) (*CheckoutEvent, error)
	UpsertCheckout(ctx context.Context, tenantID uuid.UUID, token string, patch CheckoutEventPatch) (*CheckoutEvent, error)
	// CompleteCheckout transitions the token's checkout to completed,
	// creating the row when the create event was never delivered.
	CompleteCheckout(ctx context.Context, tenantID uuid.UUID, token, externalOrderID string, completedAt time.Time) (*CheckoutEvent, error)

	// FindAbandonedCarts classifies CREATED carts older than the cutoff
	FindAbandonedCarts(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]CartEvent, error)
	// FindAbandonedCheckouts classifies CREATED checkouts older than the cutoff
	FindAbandonedCheckouts(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]CheckoutEvent, error)

	// MarkCartsAbandoned materializes the abandoned flag on CREATED carts
	// older than the cutoff; returns the number of rows updated.
	MarkCartsAbandoned(ctx context.Context, olderThan time.Time) (int64, error)
	// MarkCheckoutsAbandoned materializes the abandoned flag on CREATED
	// checkouts older than the cutoff; completed rows are never touched.
	MarkCheckoutsAbandoned(ctx context.Context, olderThan time.Time) (int64, error)
}
