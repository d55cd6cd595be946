package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storepulse/backend/internal/domain/commerce"
	"github.com/storepulse/backend/internal/domain/shared"
)

// GormOrderRepository implements commerce.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByExternalID finds an order by its provider ID within a tenant,
// including its line items
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*commerce.Order, error) {
	var o commerce.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAllForTenant finds all orders for a tenant
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]commerce.Order, error) {
	var orders []commerce.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&commerce.Order{}).Preload("Items").Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Upsert creates the order if absent, otherwise merges the patch into the
// existing row. When the patch carries items they replace the stored ones
// in the same transaction, so redelivery never duplicates line items.
func (r *GormOrderRepository) Upsert(ctx context.Context, tenantID uuid.UUID, externalID string, patch commerce.OrderPatch) (*commerce.Order, error) {
	var out *commerce.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = r.upsertInTx(ctx, tx, tenantID, externalID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormOrderRepository) upsertInTx(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, externalID string, patch commerce.OrderPatch) (*commerce.Order, error) {
	var existing commerce.Order
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		First(&existing).Error
	if err == nil {
		existing.Apply(patch)
		if err := tx.WithContext(ctx).Omit("Items").Save(&existing).Error; err != nil {
			return nil, err
		}
		if err := r.replaceItems(ctx, tx, &existing, patch.Items); err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created, err := commerce.NewOrder(tenantID, externalID)
	if err != nil {
		return nil, err
	}
	created.Apply(patch)

	result := tx.WithContext(ctx).
		Omit("Items").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_id"}},
			DoNothing: true,
		}).
		Create(created)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if err := tx.WithContext(ctx).
			Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
			First(&existing).Error; err != nil {
			return nil, err
		}
		existing.Apply(patch)
		if err := tx.WithContext(ctx).Omit("Items").Save(&existing).Error; err != nil {
			return nil, err
		}
		if err := r.replaceItems(ctx, tx, &existing, patch.Items); err != nil {
			return nil, err
		}
		return &existing, nil
	}

	if err := r.replaceItems(ctx, tx, created, patch.Items); err != nil {
		return nil, err
	}
	return created, nil
}

// replaceItems swaps the order's stored line items for the delivered ones.
// A nil slice means the delivery carried no items and the stored ones are
// kept; an empty non-nil slice clears them.
func (r *GormOrderRepository) replaceItems(ctx context.Context, tx *gorm.DB, order *commerce.Order, items []commerce.OrderItem) error {
	if items == nil {
		var stored []commerce.OrderItem
		if err := tx.WithContext(ctx).
			Where("order_id = ?", order.ID).
			Find(&stored).Error; err != nil {
			return err
		}
		order.Items = stored
		return nil
	}

	if err := tx.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Delete(&commerce.OrderItem{}).Error; err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].BaseEntity = shared.NewBaseEntity()
		}
		items[i].OrderID = order.ID
		items[i].TenantID = order.TenantID
	}
	if len(items) > 0 {
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// CountForTenant counts orders for a tenant
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&commerce.Order{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormOrderRepository implements commerce.OrderRepository
var _ commerce.OrderRepository = (*GormOrderRepository)(nil)
