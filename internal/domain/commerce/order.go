package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepulse/backend/internal/domain/shared"
)

// Order is the canonical record for a storefront order.
type Order struct {
	shared.TenantAggregateRoot
	// ExternalID is unique per tenant; the composite constraint lives in
	// the migrations
	ExternalID string `gorm:"type:varchar(64);not null;index"`
	// CustomerID links to the local customer row; nil when the customer
	// has not been seen yet (the link is re-established on redelivery)
	CustomerID        *uuid.UUID `gorm:"type:uuid;index"`
	OrderNumber       string     `gorm:"type:varchar(64)"`
	OrderDate         time.Time
	TotalPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SubtotalPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDiscounts    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FinancialStatus   string          `gorm:"type:varchar(50)"`
	FulfillmentStatus string          `gorm:"type:varchar(50)"`
	Currency          string          `gorm:"type:varchar(10)"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line item belonging to an order. Items are replaced
// wholesale whenever the order is upserted, so redelivery never
// duplicates them.
type OrderItem struct {
	shared.BaseEntity
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ExternalProductID string    `gorm:"type:varchar(64)"`
	Title             string    `gorm:"type:varchar(500)"`
	VariantTitle      string    `gorm:"type:varchar(255)"`
	Quantity          int       `gorm:"not null;default:1"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDiscount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder creates an order record for a tenant
func NewOrder(tenantID uuid.UUID, externalID string) (*Order, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External ID cannot be empty")
	}
	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ExternalID:          externalID,
		TotalPrice:          decimal.Zero,
		SubtotalPrice:       decimal.Zero,
		TotalTax:            decimal.Zero,
		TotalDiscounts:      decimal.Zero,
	}, nil
}

// OrderPatch carries the fields present in an inbound payload.
// A nil Items slice means the delivery carried no line items and the
// stored items are kept; a non-nil slice replaces them.
type OrderPatch struct {
	CustomerID        *uuid.UUID
	OrderNumber       *string
	OrderDate         *time.Time
	TotalPrice        *decimal.Decimal
	SubtotalPrice     *decimal.Decimal
	TotalTax          *decimal.Decimal
	TotalDiscounts    *decimal.Decimal
	FinancialStatus   *string
	FulfillmentStatus *string
	Currency          *string
	Items             []OrderItem
}

// Apply merges the patch into the order record. Item replacement is
// handled by the repository so it can happen in the same transaction.
func (o *Order) Apply(p OrderPatch) {
	if p.CustomerID != nil {
		o.CustomerID = p.CustomerID
	}
	if p.OrderNumber != nil {
		o.OrderNumber = *p.OrderNumber
	}
	if p.OrderDate != nil {
		o.OrderDate = *p.OrderDate
	}
	if p.TotalPrice != nil {
		o.TotalPrice = *p.TotalPrice
	}
	if p.SubtotalPrice != nil {
		o.SubtotalPrice = *p.SubtotalPrice
	}
	if p.TotalTax != nil {
		o.TotalTax = *p.TotalTax
	}
	if p.TotalDiscounts != nil {
		o.TotalDiscounts = *p.TotalDiscounts
	}
	if p.FinancialStatus != nil {
		o.FinancialStatus = *p.FinancialStatus
	}
	if p.FulfillmentStatus != nil {
		o.FulfillmentStatus = *p.FulfillmentStatus
	}
	if p.Currency != nil {
		o.Currency = *p.Currency
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// NewOrderItem creates a line item for an order
func NewOrderItem(tenantID uuid.UUID, externalProductID, title, variantTitle string, quantity int, unitPrice, totalDiscount decimal.Decimal) OrderItem {
	if quantity < 1 {
		quantity = 1
	}
	return OrderItem{
		BaseEntity:        shared.NewBaseEntity(),
		TenantID:          tenantID,
		ExternalProductID: externalProductID,
		Title:             title,
		VariantTitle:      variantTitle,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		TotalDiscount:     totalDiscount,
	}
}
