package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/backend/internal/domain/commerce"
)

func TestGormOrderRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates order with line items", func(t *testing.T) {
		items := []commerce.OrderItem{
			commerce.NewOrderItem(tenantID, "p1", "Widget", "Blue", 2, decimal.RequireFromString("10.00"), decimal.Zero),
			commerce.NewOrderItem(tenantID, "p2", "Gadget", "", 1, decimal.RequireFromString("25.00"), decimal.Zero),
		}
		o, err := repo.Upsert(ctx, tenantID, "5001", commerce.OrderPatch{
			OrderNumber: strPtr("#1001"),
			TotalPrice:  decPtr("45.00"),
			Currency:    strPtr("USD"),
			Items:       items,
		})
		require.NoError(t, err)
		assert.Len(t, o.Items, 2)

		stored, err := repo.FindByExternalID(ctx, tenantID, "5001")
		require.NoError(t, err)
		assert.Len(t, stored.Items, 2)
		assert.Equal(t, "#1001", stored.OrderNumber)
	})

	t.Run("redelivery replaces items instead of appending", func(t *testing.T) {
		items := []commerce.OrderItem{
			commerce.NewOrderItem(tenantID, "p1", "Widget", "Blue", 3, decimal.RequireFromString("10.00"), decimal.Zero),
		}
		o, err := repo.Upsert(ctx, tenantID, "5001", commerce.OrderPatch{
			TotalPrice: decPtr("30.00"),
			Items:      items,
		})
		require.NoError(t, err)
		assert.Len(t, o.Items, 1)
		assert.Equal(t, 3, o.Items[0].Quantity)

		stored, err := repo.FindByExternalID(ctx, tenantID, "5001")
		require.NoError(t, err)
		require.Len(t, stored.Items, 1)
		assert.Equal(t, "p1", stored.Items[0].ExternalProductID)
		assert.True(t, stored.TotalPrice.Equal(decimal.RequireFromString("30.00")))

		var itemCount int64
		require.NoError(t, db.Model(&commerce.OrderItem{}).Where("order_id = ?", stored.ID).Count(&itemCount).Error)
		assert.Equal(t, int64(1), itemCount)
	})

	t.Run("delivery without items keeps the stored ones", func(t *testing.T) {
		o, err := repo.Upsert(ctx, tenantID, "5001", commerce.OrderPatch{
			FinancialStatus: strPtr("paid"),
		})
		require.NoError(t, err)
		assert.Len(t, o.Items, 1)
		assert.Equal(t, "paid", o.FinancialStatus)
	})

	t.Run("customer link is applied when present", func(t *testing.T) {
		customerID := uuid.New()
		orderDate := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
		o, err := repo.Upsert(ctx, tenantID, "5002", commerce.OrderPatch{
			CustomerID: &customerID,
			OrderDate:  &orderDate,
		})
		require.NoError(t, err)
		require.NotNil(t, o.CustomerID)
		assert.Equal(t, customerID, *o.CustomerID)
	})
}

func TestGormOrderRepository_CountForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	_, err := repo.Upsert(ctx, tenantID, "1", commerce.OrderPatch{})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, tenantID, "1", commerce.OrderPatch{})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, uuid.New(), "1", commerce.OrderPatch{})
	require.NoError(t, err)

	count, err := repo.CountForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
