package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storepulse/backend/internal/domain/ingest"
	"github.com/storepulse/backend/internal/interfaces/http/dto"
)

const (
	shopDomainHeader = "X-Shopify-Shop-Domain"
	signatureHeader  = "X-Shopify-Hmac-SHA256"
)

// WebhookProcessor handles verified webhook deliveries by topic
type WebhookProcessor interface {
	HandleCustomer(ctx context.Context, shopDomain, signature string, body []byte) error
	HandleProduct(ctx context.Context, shopDomain, signature string, body []byte) error
	HandleOrder(ctx context.Context, shopDomain, signature string, body []byte) error
	HandleCartCreate(ctx context.Context, shopDomain, signature string, body []byte) error
	HandleCheckoutCreate(ctx context.Context, shopDomain, signature string, body []byte) error
	HandleCheckoutUpdate(ctx context.Context, shopDomain, signature string, body []byte) error
}

// WebhookHandler exposes the webhook ingestion endpoints. The raw body
// is read before any parsing because the signature covers the exact
// bytes on the wire.
type WebhookHandler struct {
	processor         WebhookProcessor
	processingTimeout time.Duration
	logger            *zap.Logger
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(processor WebhookProcessor, processingTimeout time.Duration, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor:         processor,
		processingTimeout: processingTimeout,
		logger:            logger,
	}
}

// RegisterRoutes registers the webhook endpoints
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/customers", h.handle(h.processor.HandleCustomer))
		webhooks.POST("/products", h.handle(h.processor.HandleProduct))
		webhooks.POST("/orders", h.handle(h.processor.HandleOrder))
		webhooks.POST("/carts/create", h.handle(h.processor.HandleCartCreate))
		webhooks.POST("/checkouts/create", h.handle(h.processor.HandleCheckoutCreate))
		webhooks.POST("/checkouts/update", h.handle(h.processor.HandleCheckoutUpdate))
	}
}

type processFunc func(ctx context.Context, shopDomain, signature string, body []byte) error

func (h *WebhookHandler) handle(process processFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_BODY", "Failed to read request body"))
			return
		}

		shopDomain := c.GetHeader(shopDomainHeader)
		signature := c.GetHeader(signatureHeader)

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.processingTimeout)
		defer cancel()

		if err := process(ctx, shopDomain, signature, body); err != nil {
			h.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	}
}

// respondError maps ingestion errors to HTTP status codes. The sender
// retries 5xx responses; 4xx responses are terminal for the delivery.
func (h *WebhookHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ingest.ErrSignatureInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("SIGNATURE_INVALID", "Webhook signature verification failed"))
	case errors.Is(err, ingest.ErrTenantNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("TENANT_NOT_FOUND", "No store is registered for this shop domain"))
	case errors.Is(err, ingest.ErrTenantInactive):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse("TENANT_INACTIVE", "Ingestion is disabled for this store"))
	case errors.Is(err, ingest.ErrMalformedPayload):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("MALFORMED_PAYLOAD", "Payload could not be decoded"))
	default:
		h.logger.Error("Webhook processing failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL_ERROR", "Failed to process webhook"))
	}
}
