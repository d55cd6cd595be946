package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storepulse/backend/internal/domain/commerce"
	"github.com/storepulse/backend/internal/domain/tenant"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
// The composite unique constraints are created explicitly so upserts
// exercise real conflicts in tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&tenant.Tenant{},
		&commerce.Customer{},
		&commerce.Product{},
		&commerce.Order{},
		&commerce.OrderItem{},
		&commerce.CartEvent{},
		&commerce.CheckoutEvent{},
	)
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_customers_tenant_external ON customers (tenant_id, external_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_products_tenant_external ON products (tenant_id, external_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_tenant_external ON orders (tenant_id, external_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_events_tenant_token ON cart_events (tenant_id, token)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_checkout_events_tenant_token ON checkout_events (tenant_id, token)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}
