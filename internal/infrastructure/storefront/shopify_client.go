package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/storepulse/backend/internal/domain/ingest"
	"github.com/storepulse/backend/internal/domain/tenant"
)

const (
	accessTokenHeader = "X-Shopify-Access-Token"

	// maxResponseSize bounds how much of an Admin API response is read
	maxResponseSize = 20 << 20 // 20MB
)

// ShopifyClient pulls entities from the Shopify Admin REST API. Each
// request authenticates with the tenant's access token and pages with
// since_id cursors, so a full pull survives interruption at page
// boundaries.
type ShopifyClient struct {
	httpClient *http.Client
	apiVersion string
	logger     *zap.Logger
	// baseURL overrides the per-tenant shop domain, for tests
	baseURL string
}

// NewShopifyClient creates a Shopify Admin API client
func NewShopifyClient(apiVersion string, requestTimeout time.Duration, logger *zap.Logger) *ShopifyClient {
	return &ShopifyClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiVersion: apiVersion,
		logger:     logger,
	}
}

// FetchCustomers pulls one page of customers
func (c *ShopifyClient) FetchCustomers(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*ingest.Page, error) {
	return c.fetchPage(ctx, t, "customers", sinceID, limit)
}

// FetchProducts pulls one page of products
func (c *ShopifyClient) FetchProducts(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*ingest.Page, error) {
	return c.fetchPage(ctx, t, "products", sinceID, limit)
}

// FetchOrders pulls one page of orders
func (c *ShopifyClient) FetchOrders(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*ingest.Page, error) {
	return c.fetchPage(ctx, t, "orders", sinceID, limit)
}

func (c *ShopifyClient) fetchPage(ctx context.Context, t *tenant.Tenant, resource, sinceID string, limit int) (*ingest.Page, error) {
	endpoint := c.resourceURL(t, resource, sinceID, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", resource, err)
	}
	req.Header.Set(accessTokenHeader, t.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s request failed: %v", ingest.ErrUpstreamUnavailable, resource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s response: %v", ingest.ErrUpstreamUnavailable, resource, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Storefront API returned non-OK status",
			zap.String("shop_domain", t.ShopDomain),
			zap.String("resource", resource),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %s request returned status %d", ingest.ErrUpstreamUnavailable, resource, resp.StatusCode)
	}

	var listing map[string][]ingest.Record
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s response: %v", ingest.ErrUpstreamUnavailable, resource, err)
	}

	records := listing[resource]
	page := &ingest.Page{Records: records}
	if len(records) > 0 {
		page.LastID = recordID(records[len(records)-1])
	}
	return page, nil
}

// resourceURL builds the Admin REST endpoint for one page of a resource
func (c *ShopifyClient) resourceURL(t *tenant.Tenant, resource, sinceID string, limit int) string {
	base := c.baseURL
	if base == "" {
		base = "https://" + t.ShopDomain
	}

	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	if sinceID != "" {
		q.Set("since_id", sinceID)
	}
	return fmt.Sprintf("%s/admin/api/%s/%s.json?%s", base, c.apiVersion, resource, q.Encode())
}

// recordID extracts the external id from a raw record for cursor paging
func recordID(record ingest.Record) string {
	var envelope struct {
		ID ingest.ExternalID `json:"id"`
	}
	if err := json.Unmarshal(record, &envelope); err != nil {
		return ""
	}
	return string(envelope.ID)
}

// Ensure ShopifyClient implements ingest.StorefrontClient
var _ ingest.StorefrontClient = (*ShopifyClient)(nil)
