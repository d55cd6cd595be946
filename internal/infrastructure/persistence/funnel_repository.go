package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storepulse/backend/internal/domain/commerce"
	"github.com/storepulse/backend/internal/domain/shared"
)

// GormFunnelRepository implements commerce.FunnelRepository using GORM
type GormFunnelRepository struct {
	db *gorm.DB
}

// NewGormFunnelRepository creates a new GormFunnelRepository
func NewGormFunnelRepository(db *gorm.DB) *GormFunnelRepository {
	return &GormFunnelRepository{db: db}
}

// FindCartByToken finds a cart event by its provider token within a tenant
func (r *GormFunnelRepository) FindCartByToken(ctx context.Context, tenantID uuid.UUID, token string) (*commerce.CartEvent, error) {
	var e commerce.CartEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND token = ?", tenantID, token).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// UpsertCart creates the cart event if absent, otherwise merges the patch
func (r *GormFunnelRepository) UpsertCart(ctx context.Context, tenantID uuid.UUID, token string, patch commerce.CartEventPatch) (*commerce.CartEvent, error) {
	existing, err := r.FindCartByToken(ctx, tenantID, token)
	if err == nil {
		existing.Apply(patch)
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := commerce.NewCartEvent(tenantID, token)
	if err != nil {
		return nil, err
	}
	created.Apply(patch)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "token"}},
			DoNothing: true,
		}).
		Create(created)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := r.FindCartByToken(ctx, tenantID, token)
		if err != nil {
			return nil, err
		}
		existing.Apply(patch)
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}
	return created, nil
}

// FindCheckoutByToken finds a checkout event by its provider token within a tenant
func (r *GormFunnelRepository) FindCheckoutByToken(ctx context.Context, tenantID uuid.UUID, token string) (*commerce.CheckoutEvent, error) {
	var e commerce.CheckoutEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND token = ?", tenantID, token).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// UpsertCheckout creates the checkout event if absent, otherwise merges the patch
func (r *GormFunnelRepository) UpsertCheckout(ctx context.Context, tenantID uuid.UUID, token string, patch commerce.CheckoutEventPatch) (*commerce.CheckoutEvent, error) {
	existing, err := r.FindCheckoutByToken(ctx, tenantID, token)
	if err == nil {
		existing.Apply(patch)
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := commerce.NewCheckoutEvent(tenantID, token)
	if err != nil {
		return nil, err
	}
	created.Apply(patch)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "token"}},
			DoNothing: true,
		}).
		Create(created)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := r.FindCheckoutByToken(ctx, tenantID, token)
		if err != nil {
			return nil, err
		}
		existing.Apply(patch)
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}
	return created, nil
}

// CompleteCheckout transitions the token's checkout to completed, creating
// the row when the create event was never delivered. Completion is
// idempotent and clears a previously materialized abandoned flag.
func (r *GormFunnelRepository) CompleteCheckout(ctx context.Context, tenantID uuid.UUID, token, externalOrderID string, completedAt time.Time) (*commerce.CheckoutEvent, error) {
	existing, err := r.FindCheckoutByToken(ctx, tenantID, token)
	if err == nil {
		existing.Complete(externalOrderID, completedAt)
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := commerce.NewCheckoutEvent(tenantID, token)
	if err != nil {
		return nil, err
	}
	created.Complete(externalOrderID, completedAt)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "token"}},
			DoNothing: true,
		}).
		Create(created)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := r.FindCheckoutByToken(ctx, tenantID, token)
		if err != nil {
			return nil, err
		}
		existing.Complete(externalOrderID, completedAt)
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}
	return created, nil
}

// FindAbandonedCarts classifies carts older than the cutoff as abandoned.
// The classification is derived at query time; rows already swept carry
// the materialized flag and match regardless of age.
func (r *GormFunnelRepository) FindAbandonedCarts(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]commerce.CartEvent, error) {
	var events []commerce.CartEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("is_abandoned = ? OR created_at < ?", true, olderThan).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// FindAbandonedCheckouts classifies uncompleted checkouts older than the
// cutoff as abandoned. Completed checkouts never match.
func (r *GormFunnelRepository) FindAbandonedCheckouts(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]commerce.CheckoutEvent, error) {
	var events []commerce.CheckoutEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND completed = ?", tenantID, false).
		Where("is_abandoned = ? OR created_at < ?", true, olderThan).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// MarkCartsAbandoned materializes the abandoned flag on carts older than
// the cutoff; returns the number of rows updated
func (r *GormFunnelRepository) MarkCartsAbandoned(ctx context.Context, olderThan time.Time) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&commerce.CartEvent{}).
		Where("is_abandoned = ? AND created_at < ?", false, olderThan).
		Updates(map[string]interface{}{
			"is_abandoned": true,
			"abandoned_at": now,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

// MarkCheckoutsAbandoned materializes the abandoned flag on uncompleted
// checkouts older than the cutoff; completed rows are never touched
func (r *GormFunnelRepository) MarkCheckoutsAbandoned(ctx context.Context, olderThan time.Time) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&commerce.CheckoutEvent{}).
		Where("is_abandoned = ? AND completed = ? AND created_at < ?", false, false, olderThan).
		Updates(map[string]interface{}{
			"is_abandoned": true,
			"abandoned_at": now,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

// Ensure GormFunnelRepository implements commerce.FunnelRepository
var _ commerce.FunnelRepository = (*GormFunnelRepository)(nil)
