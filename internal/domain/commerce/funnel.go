package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepulse/backend/internal/domain/shared"
)

// CartEvent records a cart created on the storefront, keyed by the
// provider's cart token within the tenant. Abandonment is a derived
// classification; the flag is only materialized by the maintenance sweep.
type CartEvent struct {
	shared.TenantAggregateRoot
	// Token is unique per tenant; the composite constraint lives in the
	// migrations
	Token              string `gorm:"type:varchar(128);not null;index"`
	CustomerExternalID string `gorm:"type:varchar(64)"`
	CustomerEmail      string `gorm:"type:varchar(255)"`
	CartValue          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ItemCount          int             `gorm:"not null;default:0"`
	IsAbandoned        bool            `gorm:"not null;default:false"`
	AbandonedAt        *time.Time
}

// TableName returns the table name for GORM
func (CartEvent) TableName() string {
	return "cart_events"
}

// NewCartEvent creates a cart event for a tenant
func NewCartEvent(tenantID uuid.UUID, token string) (*CartEvent, error) {
	if token == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Cart token cannot be empty")
	}
	return &CartEvent{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Token:               token,
		CartValue:           decimal.Zero,
	}, nil
}

// CartEventPatch carries the fields present in an inbound cart payload
type CartEventPatch struct {
	CustomerExternalID *string
	CustomerEmail      *string
	CartValue          *decimal.Decimal
	ItemCount          *int
}

// Apply merges the patch into the cart event
func (e *CartEvent) Apply(p CartEventPatch) {
	if p.CustomerExternalID != nil {
		e.CustomerExternalID = *p.CustomerExternalID
	}
	if p.CustomerEmail != nil {
		e.CustomerEmail = *p.CustomerEmail
	}
	if p.CartValue != nil {
		e.CartValue = *p.CartValue
	}
	if p.ItemCount != nil {
		e.ItemCount = *p.ItemCount
	}
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// MarkAbandoned materializes the abandoned classification
func (e *CartEvent) MarkAbandoned(at time.Time) {
	if e.IsAbandoned {
		return
	}
	e.IsAbandoned = true
	e.AbandonedAt = &at
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// CheckoutEvent records a checkout started on the storefront, keyed by
// the provider's checkout token within the tenant. A checkout completes
// when an update delivery carries an order reference; completion wins
// over abandonment.
type CheckoutEvent struct {
	shared.TenantAggregateRoot
	Token              string `gorm:"type:varchar(128);not null;index"`
	CustomerExternalID string `gorm:"type:varchar(64)"`
	CustomerEmail      string `gorm:"type:varchar(255)"`
	ExternalOrderID    string `gorm:"type:varchar(64)"`
	CheckoutValue      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ItemCount          int             `gorm:"not null;default:0"`
	Completed          bool            `gorm:"not null;default:false"`
	IsAbandoned        bool            `gorm:"not null;default:false"`
	CompletedAt        *time.Time
	AbandonedAt        *time.Time
}

// TableName returns the table name for GORM
func (CheckoutEvent) TableName() string {
	return "checkout_events"
}

// NewCheckoutEvent creates a checkout event for a tenant
func NewCheckoutEvent(tenantID uuid.UUID, token string) (*CheckoutEvent, error) {
	if token == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Checkout token cannot be empty")
	}
	return &CheckoutEvent{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Token:               token,
		CheckoutValue:       decimal.Zero,
	}, nil
}

// CheckoutEventPatch carries the fields present in an inbound checkout payload
type CheckoutEventPatch struct {
	CustomerExternalID *string
	CustomerEmail      *string
	CheckoutValue      *decimal.Decimal
	ItemCount          *int
}

// Apply merges the patch into the checkout event
func (e *CheckoutEvent) Apply(p CheckoutEventPatch) {
	if p.CustomerExternalID != nil {
		e.CustomerExternalID = *p.CustomerExternalID
	}
	if p.CustomerEmail != nil {
		e.CustomerEmail = *p.CustomerEmail
	}
	if p.CheckoutValue != nil {
		e.CheckoutValue = *p.CheckoutValue
	}
	if p.ItemCount != nil {
		e.ItemCount = *p.ItemCount
	}
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Complete transitions the checkout to completed with the originating
// order reference. Completing clears a previously materialized
// abandoned flag and is idempotent.
func (e *CheckoutEvent) Complete(externalOrderID string, at time.Time) {
	if e.Completed {
		return
	}
	e.Completed = true
	e.ExternalOrderID = externalOrderID
	e.CompletedAt = &at
	e.IsAbandoned = false
	e.AbandonedAt = nil
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// MarkAbandoned materializes the abandoned classification. Completed
// checkouts are never abandoned.
func (e *CheckoutEvent) MarkAbandoned(at time.Time) {
	if e.Completed || e.IsAbandoned {
		return
	}
	e.IsAbandoned = true
	e.AbandonedAt = &at
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}
