package ingest

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/storepulse/backend/internal/domain/commerce"
	"github.com/storepulse/backend/internal/domain/ingest"
	"github.com/storepulse/backend/internal/domain/shared"
	"github.com/storepulse/backend/internal/domain/tenant"
)

// WebhookService processes inbound webhook deliveries. Every delivery
// resolves its tenant from the shop domain header, verifies the HMAC
// signature against that tenant's secret, and reconciles the payload
// with a merge-upsert. Deliveries are safe to replay in any order.
type WebhookService struct {
	directory  *TenantDirectory
	normalizer *ingest.Normalizer
	customers  commerce.CustomerRepository
	products   commerce.ProductRepository
	orders     commerce.OrderRepository
	funnel     *FunnelService
	logger     *zap.Logger
}

// NewWebhookService creates a webhook service
func NewWebhookService(
	directory *TenantDirectory,
	normalizer *ingest.Normalizer,
	customers commerce.CustomerRepository,
	products commerce.ProductRepository,
	orders commerce.OrderRepository,
	funnel *FunnelService,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		directory:  directory,
		normalizer: normalizer,
		customers:  customers,
		products:   products,
		orders:     orders,
		funnel:     funnel,
		logger:     logger,
	}
}

// authenticate resolves the delivery's tenant and verifies its
// signature. The tenant resolves first because the secret is per-tenant;
// an unknown domain can never reach signature verification.
func (s *WebhookService) authenticate(ctx context.Context, shopDomain, signature string, body []byte) (*tenant.Tenant, error) {
	t, err := s.directory.ResolveDomain(ctx, shopDomain)
	if err != nil {
		return nil, err
	}
	if !t.IsActive() {
		return nil, ingest.ErrTenantInactive
	}
	if !ingest.VerifySignature(body, signature, t.WebhookSecret) {
		s.logger.Warn("Webhook signature verification failed",
			zap.String("shop_domain", shopDomain),
		)
		return nil, ingest.ErrSignatureInvalid
	}
	return t, nil
}

// HandleCustomer processes a customer create/update delivery
func (s *WebhookService) HandleCustomer(ctx context.Context, shopDomain, signature string, body []byte) error {
	t, err := s.authenticate(ctx, shopDomain, signature, body)
	if err != nil {
		return err
	}

	externalID, patch, err := s.normalizer.Customer(body)
	if err != nil {
		return err
	}

	if _, err := s.customers.Upsert(ctx, t.ID, externalID, patch); err != nil {
		return err
	}

	s.logger.Debug("Customer webhook processed",
		zap.String("shop_domain", shopDomain),
		zap.String("external_id", externalID),
	)
	return nil
}

// HandleProduct processes a product create/update delivery
func (s *WebhookService) HandleProduct(ctx context.Context, shopDomain, signature string, body []byte) error {
	t, err := s.authenticate(ctx, shopDomain, signature, body)
	if err != nil {
		return err
	}

	externalID, patch, err := s.normalizer.Product(body)
	if err != nil {
		return err
	}

	if _, err := s.products.Upsert(ctx, t.ID, externalID, patch); err != nil {
		return err
	}

	s.logger.Debug("Product webhook processed",
		zap.String("shop_domain", shopDomain),
		zap.String("external_id", externalID),
	)
	return nil
}

// HandleOrder processes an order create/update delivery. The customer
// link resolves against the local store; an order arriving before its
// customer is stored unlinked and relinks on redelivery.
func (s *WebhookService) HandleOrder(ctx context.Context, shopDomain, signature string, body []byte) error {
	t, err := s.authenticate(ctx, shopDomain, signature, body)
	if err != nil {
		return err
	}
	return s.reconcileOrder(ctx, t, body)
}

// reconcileOrder runs order normalization and upsert for a raw payload,
// shared between webhook deliveries and bulk pull records
func (s *WebhookService) reconcileOrder(ctx context.Context, t *tenant.Tenant, body []byte) error {
	normalized, err := s.normalizer.Order(body)
	if err != nil {
		return err
	}

	if normalized.CustomerExternalID != "" {
		customer, err := s.customers.FindByExternalID(ctx, t.ID, normalized.CustomerExternalID)
		switch {
		case err == nil:
			normalized.Patch.CustomerID = &customer.ID
		case errors.Is(err, shared.ErrNotFound):
			// Customer not seen yet, store the order unlinked
		default:
			return err
		}
	}

	if _, err := s.orders.Upsert(ctx, t.ID, normalized.ExternalID, normalized.Patch); err != nil {
		return err
	}

	if normalized.CustomerExternalID != "" {
		// Move the customer's last order date forward; the patch merge
		// ignores older dates
		orderDate := normalized.OrderDate
		_, err := s.customers.Upsert(ctx, t.ID, normalized.CustomerExternalID, commerce.CustomerPatch{
			LastOrderAt: &orderDate,
		})
		if err != nil {
			s.logger.Warn("Failed to advance customer last order date",
				zap.String("tenant_id", t.ID.String()),
				zap.String("customer_external_id", normalized.CustomerExternalID),
				zap.Error(err),
			)
		}
	}

	s.logger.Debug("Order processed",
		zap.String("shop_domain", t.ShopDomain),
		zap.String("external_id", normalized.ExternalID),
	)
	return nil
}

// HandleCartCreate processes a cart creation delivery
func (s *WebhookService) HandleCartCreate(ctx context.Context, shopDomain, signature string, body []byte) error {
	t, err := s.authenticate(ctx, shopDomain, signature, body)
	if err != nil {
		return err
	}

	normalized, err := s.normalizer.Cart(body)
	if err != nil {
		return err
	}
	return s.funnel.RecordCart(ctx, t.ID, normalized)
}

// HandleCheckoutCreate processes a checkout creation delivery
func (s *WebhookService) HandleCheckoutCreate(ctx context.Context, shopDomain, signature string, body []byte) error {
	t, err := s.authenticate(ctx, shopDomain, signature, body)
	if err != nil {
		return err
	}

	normalized, err := s.normalizer.Checkout(body)
	if err != nil {
		return err
	}
	return s.funnel.RecordCheckout(ctx, t.ID, normalized)
}

// HandleCheckoutUpdate processes a checkout update delivery. An update
// carrying an order reference completes the checkout; without one it is
// an ordinary merge.
func (s *WebhookService) HandleCheckoutUpdate(ctx context.Context, shopDomain, signature string, body []byte) error {
	t, err := s.authenticate(ctx, shopDomain, signature, body)
	if err != nil {
		return err
	}

	normalized, err := s.normalizer.Checkout(body)
	if err != nil {
		return err
	}
	return s.funnel.UpdateCheckout(ctx, t.ID, normalized)
}
