package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storepulse/backend/internal/domain/ingest"
	"github.com/storepulse/backend/internal/domain/shared"
	"github.com/storepulse/backend/internal/domain/tenant"
	"github.com/storepulse/backend/internal/infrastructure/cache"
)

func TestTenantDirectory_ResolveDomain(t *testing.T) {
	t.Run("repository hit populates the cache", func(t *testing.T) {
		tn, err := tenant.NewTenant("Acme", "acme.myshopify.com", "tok", "sec")
		require.NoError(t, err)

		repo := new(MockTenantRepository)
		repo.On("FindByShopDomain", mock.Anything, "acme.myshopify.com").Return(tn, nil).Once()

		directory := NewTenantDirectory(repo, cache.NewInMemoryTenantCache(time.Minute), zap.NewNop())

		got, err := directory.ResolveDomain(context.Background(), "acme.myshopify.com")
		require.NoError(t, err)
		assert.Equal(t, tn.ID, got.ID)

		// Second resolve is served from the cache
		got, err = directory.ResolveDomain(context.Background(), "acme.myshopify.com")
		require.NoError(t, err)
		assert.Equal(t, tn.ID, got.ID)
		repo.AssertNumberOfCalls(t, "FindByShopDomain", 1)
	})

	t.Run("unknown domain maps to tenant not found", func(t *testing.T) {
		repo := new(MockTenantRepository)
		repo.On("FindByShopDomain", mock.Anything, "nobody.myshopify.com").Return(nil, shared.ErrNotFound)

		directory := NewTenantDirectory(repo, nopCache{}, zap.NewNop())
		_, err := directory.ResolveDomain(context.Background(), "nobody.myshopify.com")
		assert.ErrorIs(t, err, ingest.ErrTenantNotFound)
	})

	t.Run("empty domain never reaches the repository", func(t *testing.T) {
		repo := new(MockTenantRepository)
		directory := NewTenantDirectory(repo, nopCache{}, zap.NewNop())

		_, err := directory.ResolveDomain(context.Background(), "")
		assert.ErrorIs(t, err, ingest.ErrTenantNotFound)
		repo.AssertNotCalled(t, "FindByShopDomain", mock.Anything, mock.Anything)
	})
}

func TestTenantDirectory_ResolveID(t *testing.T) {
	tn, err := tenant.NewTenant("Acme", "acme.myshopify.com", "tok", "sec")
	require.NoError(t, err)

	repo := new(MockTenantRepository)
	repo.On("FindByID", mock.Anything, tn.ID).Return(tn, nil)

	directory := NewTenantDirectory(repo, nopCache{}, zap.NewNop())
	got, err := directory.ResolveID(context.Background(), tn.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme.myshopify.com", got.ShopDomain)
}
