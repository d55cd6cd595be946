package ingest

import (
	"context"
	"encoding/json"

	"github.com/storepulse/backend/internal/domain/tenant"
)

// Record is one raw entity document from a storefront list response.
// Records flow through the same normalizer as webhook bodies.
type Record = json.RawMessage

// Page is one page of records from a storefront pull
type Page struct {
	Records []Record
	// LastID is the external id of the final record, used as the
	// since_id cursor for the next page
	LastID string
}

// HasMore reports whether another page should be requested
func (p *Page) HasMore(limit int) bool {
	return len(p.Records) >= limit && p.LastID != ""
}

// StorefrontClient is the port for pulling entities from a storefront's
// Admin API. Implementations authenticate with the tenant's access token
// and page with since_id cursors. Fetch failures wrap
// ErrUpstreamUnavailable.
type StorefrontClient interface {
	FetchCustomers(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*Page, error)
	FetchProducts(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*Page, error)
	FetchOrders(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*Page, error)
}
