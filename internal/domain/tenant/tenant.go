package tenant

import (
	"strings"
	"time"

	"github.com/storepulse/backend/internal/domain/shared"
)

// Tenant represents a connected storefront. Each tenant owns an isolated
// slice of every commerce table, keyed by its UUID.
type Tenant struct {
	shared.BaseAggregateRoot
	StoreName     string `gorm:"type:varchar(200);not null"`
	ShopDomain    string `gorm:"type:varchar(255);not null;uniqueIndex"`
	AccessToken   string `gorm:"type:varchar(255);not null"`
	WebhookSecret string `gorm:"type:varchar(255);not null"`
	Active        bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant for a storefront
func NewTenant(storeName, shopDomain, accessToken, webhookSecret string) (*Tenant, error) {
	shopDomain = normalizeDomain(shopDomain)
	if err := validateShopDomain(shopDomain); err != nil {
		return nil, err
	}
	if storeName == "" {
		storeName = shopDomain
	}
	if accessToken == "" {
		return nil, shared.NewDomainError("INVALID_ACCESS_TOKEN", "Access token cannot be empty")
	}
	if webhookSecret == "" {
		return nil, shared.NewDomainError("INVALID_WEBHOOK_SECRET", "Webhook secret cannot be empty")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreName:         storeName,
		ShopDomain:        shopDomain,
		AccessToken:       accessToken,
		WebhookSecret:     webhookSecret,
		Active:            true,
	}, nil
}

// Activate enables webhook ingestion and scheduled sync for the tenant
func (t *Tenant) Activate() {
	t.Active = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Deactivate disables webhook ingestion and scheduled sync for the tenant.
// Existing data is retained.
func (t *Tenant) Deactivate() {
	t.Active = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// RotateCredentials replaces the access token and webhook secret
func (t *Tenant) RotateCredentials(accessToken, webhookSecret string) error {
	if accessToken == "" {
		return shared.NewDomainError("INVALID_ACCESS_TOKEN", "Access token cannot be empty")
	}
	if webhookSecret == "" {
		return shared.NewDomainError("INVALID_WEBHOOK_SECRET", "Webhook secret cannot be empty")
	}
	t.AccessToken = accessToken
	t.WebhookSecret = webhookSecret
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// IsActive returns true if the tenant accepts ingestion
func (t *Tenant) IsActive() bool {
	return t.Active
}

func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

func validateShopDomain(domain string) error {
	if domain == "" {
		return shared.NewDomainError("INVALID_SHOP_DOMAIN", "Shop domain cannot be empty")
	}
	if len(domain) > 255 {
		return shared.NewDomainError("INVALID_SHOP_DOMAIN", "Shop domain cannot exceed 255 characters")
	}
	if strings.ContainsAny(domain, " /\\") || !strings.Contains(domain, ".") {
		return shared.NewDomainError("INVALID_SHOP_DOMAIN", "Shop domain must be a bare hostname")
	}
	return nil
}
