package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storepulse/backend/internal/domain/ingest"
)

// fakeProcessor returns a canned error for every topic and records the
// last delivery it saw
type fakeProcessor struct {
	err        error
	shopDomain string
	signature  string
	body       []byte
}

func (f *fakeProcessor) record(_ context.Context, shopDomain, signature string, body []byte) error {
	f.shopDomain = shopDomain
	f.signature = signature
	f.body = body
	return f.err
}

func (f *fakeProcessor) HandleCustomer(ctx context.Context, d, s string, b []byte) error {
	return f.record(ctx, d, s, b)
}
func (f *fakeProcessor) HandleProduct(ctx context.Context, d, s string, b []byte) error {
	return f.record(ctx, d, s, b)
}
func (f *fakeProcessor) HandleOrder(ctx context.Context, d, s string, b []byte) error {
	return f.record(ctx, d, s, b)
}
func (f *fakeProcessor) HandleCartCreate(ctx context.Context, d, s string, b []byte) error {
	return f.record(ctx, d, s, b)
}
func (f *fakeProcessor) HandleCheckoutCreate(ctx context.Context, d, s string, b []byte) error {
	return f.record(ctx, d, s, b)
}
func (f *fakeProcessor) HandleCheckoutUpdate(ctx context.Context, d, s string, b []byte) error {
	return f.record(ctx, d, s, b)
}

func newWebhookRouter(processor WebhookProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewWebhookHandler(processor, 10*time.Second, zap.NewNop())
	h.RegisterRoutes(engine.Group("/api"))
	return engine
}

func postWebhook(router *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("X-Shopify-Shop-Domain", "acme.myshopify.com")
	req.Header.Set("X-Shopify-Hmac-SHA256", "sig")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_PassesRawDelivery(t *testing.T) {
	processor := &fakeProcessor{}
	router := newWebhookRouter(processor)

	body := []byte(`{"id": 1001}`)
	w := postWebhook(router, "/api/webhooks/customers", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme.myshopify.com", processor.shopDomain)
	assert.Equal(t, "sig", processor.signature)
	assert.Equal(t, body, processor.body)
}

func TestWebhookHandler_RoutesAllTopics(t *testing.T) {
	processor := &fakeProcessor{}
	router := newWebhookRouter(processor)

	paths := []string{
		"/api/webhooks/customers",
		"/api/webhooks/products",
		"/api/webhooks/orders",
		"/api/webhooks/carts/create",
		"/api/webhooks/checkouts/create",
		"/api/webhooks/checkouts/update",
	}
	for _, path := range paths {
		w := postWebhook(router, path, []byte(`{}`))
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestWebhookHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid signature", ingest.ErrSignatureInvalid, http.StatusUnauthorized},
		{"unknown tenant", ingest.ErrTenantNotFound, http.StatusNotFound},
		{"inactive tenant", ingest.ErrTenantInactive, http.StatusForbidden},
		{"malformed payload", ingest.ErrMalformedPayload, http.StatusBadRequest},
		{"store failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newWebhookRouter(&fakeProcessor{err: tt.err})
			w := postWebhook(router, "/api/webhooks/orders", []byte(`{"id": 1}`))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}
