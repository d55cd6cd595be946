package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storepulse/backend/internal/domain/shared"
)

// Customer is the canonical record for a storefront customer. It is
// reconciled from webhook deliveries and bulk pulls, keyed by the
// storefront's customer ID within the tenant.
type Customer struct {
	shared.TenantAggregateRoot
	// ExternalID is unique per tenant; the composite constraint lives in
	// the migrations
	ExternalID  string          `gorm:"type:varchar(64);not null;index"`
	Email       string          `gorm:"type:varchar(255);index"`
	FirstName   string          `gorm:"type:varchar(100)"`
	LastName    string          `gorm:"type:varchar(100)"`
	Phone       string          `gorm:"type:varchar(50)"`
	OrdersCount int             `gorm:"not null;default:0"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	State       string          `gorm:"type:varchar(50)"`
	Tags        string          `gorm:"type:text"`
	LastOrderAt *time.Time
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer record for a tenant
func NewCustomer(tenantID uuid.UUID, externalID string) (*Customer, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External ID cannot be empty")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ExternalID:          externalID,
		TotalSpent:          decimal.Zero,
	}, nil
}

// CustomerPatch carries the fields present in an inbound payload.
// A nil pointer means the field was absent and the stored value is kept.
type CustomerPatch struct {
	Email       *string
	FirstName   *string
	LastName    *string
	Phone       *string
	OrdersCount *int
	TotalSpent  *decimal.Decimal
	State       *string
	Tags        *string
	LastOrderAt *time.Time
}

// Apply merges the patch into the customer record
func (c *Customer) Apply(p CustomerPatch) {
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.OrdersCount != nil {
		c.OrdersCount = *p.OrdersCount
	}
	if p.TotalSpent != nil {
		c.TotalSpent = *p.TotalSpent
	}
	if p.State != nil {
		c.State = *p.State
	}
	if p.Tags != nil {
		c.Tags = *p.Tags
	}
	if p.LastOrderAt != nil {
		// Last order date only moves forward
		if c.LastOrderAt == nil || p.LastOrderAt.After(*c.LastOrderAt) {
			c.LastOrderAt = p.LastOrderAt
		}
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.LastName
	}
}
