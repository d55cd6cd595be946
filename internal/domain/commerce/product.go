package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepulse/backend/internal/domain/shared"
)

// Product is the canonical record for a storefront product. Price and
// inventory reflect the first variant reported by the storefront.
type Product struct {
	shared.TenantAggregateRoot
	// ExternalID is unique per tenant; the composite constraint lives in
	// the migrations
	ExternalID  string          `gorm:"type:varchar(64);not null;index"`
	Title       string          `gorm:"type:varchar(500)"`
	Description string          `gorm:"type:text"`
	Vendor      string          `gorm:"type:varchar(255)"`
	ProductType string          `gorm:"type:varchar(255)"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      string          `gorm:"type:varchar(50)"`
	// InventoryQuantity is nil when the storefront has never reported stock
	InventoryQuantity *int
	ImageURL          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product record for a tenant
func NewProduct(tenantID uuid.UUID, externalID string) (*Product, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External ID cannot be empty")
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ExternalID:          externalID,
		Price:               decimal.Zero,
	}, nil
}

// ProductPatch carries the fields present in an inbound payload.
// A nil pointer means the field was absent and the stored value is kept.
type ProductPatch struct {
	Title             *string
	Description       *string
	Vendor            *string
	ProductType       *string
	Price             *decimal.Decimal
	Status            *string
	InventoryQuantity *int
	ImageURL          *string
}

// Apply merges the patch into the product record
func (p *Product) Apply(patch ProductPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Vendor != nil {
		p.Vendor = *patch.Vendor
	}
	if patch.ProductType != nil {
		p.ProductType = *patch.ProductType
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.InventoryQuantity != nil {
		p.InventoryQuantity = patch.InventoryQuantity
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
