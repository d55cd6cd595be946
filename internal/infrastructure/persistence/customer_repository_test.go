package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/backend/internal/domain/commerce"
	"github.com/storepulse/backend/internal/domain/shared"
)

func strPtr(s string) *string          { return &s }
func intPtr(i int) *int                { return &i }
func decPtr(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }

func TestGormCustomerRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates on first delivery", func(t *testing.T) {
		c, err := repo.Upsert(ctx, tenantID, "1001", commerce.CustomerPatch{
			Email:     strPtr("jane@example.com"),
			FirstName: strPtr("Jane"),
			Phone:     strPtr("+15551234"),
		})
		require.NoError(t, err)
		assert.Equal(t, "1001", c.ExternalID)
		assert.Equal(t, "jane@example.com", c.Email)

		count, err := repo.CountForTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("redelivery merges into the same row", func(t *testing.T) {
		// Second delivery without the phone, it must survive the merge
		c, err := repo.Upsert(ctx, tenantID, "1001", commerce.CustomerPatch{
			Email:       strPtr("jane@example.com"),
			LastName:    strPtr("Doe"),
			OrdersCount: intPtr(3),
			TotalSpent:  decPtr("149.50"),
		})
		require.NoError(t, err)
		assert.Equal(t, "+15551234", c.Phone)
		assert.Equal(t, "Doe", c.LastName)
		assert.Equal(t, 3, c.OrdersCount)
		assert.True(t, c.TotalSpent.Equal(decimal.RequireFromString("149.50")))

		count, err := repo.CountForTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("same external ID under another tenant is a separate row", func(t *testing.T) {
		otherTenant := uuid.New()
		_, err := repo.Upsert(ctx, otherTenant, "1001", commerce.CustomerPatch{
			Email: strPtr("other@example.com"),
		})
		require.NoError(t, err)

		c, err := repo.FindByExternalID(ctx, tenantID, "1001")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", c.Email)

		other, err := repo.FindByExternalID(ctx, otherTenant, "1001")
		require.NoError(t, err)
		assert.Equal(t, "other@example.com", other.Email)
	})

	t.Run("empty external ID is rejected", func(t *testing.T) {
		_, err := repo.Upsert(ctx, tenantID, "", commerce.CustomerPatch{})
		assert.Error(t, err)
	})
}

func TestGormCustomerRepository_FindByExternalID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	_, err := repo.FindByExternalID(ctx, uuid.New(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCustomerRepository_FindAllForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	for _, id := range []string{"1", "2", "3"} {
		_, err := repo.Upsert(ctx, tenantID, id, commerce.CustomerPatch{})
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, uuid.New(), "4", commerce.CustomerPatch{})
	require.NoError(t, err)

	customers, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, customers, 3)
}
