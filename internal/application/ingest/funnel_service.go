package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storepulse/backend/internal/domain/commerce"
	"github.com/storepulse/backend/internal/domain/ingest"
)

// FunnelService maintains cart and checkout funnel state. Rows are keyed
// by provider token within the tenant; completion always wins over
// abandonment.
type FunnelService struct {
	repo   commerce.FunnelRepository
	logger *zap.Logger
}

// NewFunnelService creates a funnel service
func NewFunnelService(repo commerce.FunnelRepository, logger *zap.Logger) *FunnelService {
	return &FunnelService{repo: repo, logger: logger}
}

// RecordCart upserts a cart event from a normalized cart payload
func (s *FunnelService) RecordCart(ctx context.Context, tenantID uuid.UUID, normalized *ingest.NormalizedCart) error {
	_, err := s.repo.UpsertCart(ctx, tenantID, normalized.Token, normalized.Patch)
	return err
}

// RecordCheckout upserts a checkout event from a normalized checkout payload
func (s *FunnelService) RecordCheckout(ctx context.Context, tenantID uuid.UUID, normalized *ingest.NormalizedCheckout) error {
	_, err := s.repo.UpsertCheckout(ctx, tenantID, normalized.Token, normalized.Patch)
	return err
}

// UpdateCheckout merges a checkout update. When the update carries an
// order reference the checkout transitions to completed, clearing any
// abandoned classification.
func (s *FunnelService) UpdateCheckout(ctx context.Context, tenantID uuid.UUID, normalized *ingest.NormalizedCheckout) error {
	if _, err := s.repo.UpsertCheckout(ctx, tenantID, normalized.Token, normalized.Patch); err != nil {
		return err
	}
	if normalized.ExternalOrderID == "" {
		return nil
	}

	_, err := s.repo.CompleteCheckout(ctx, tenantID, normalized.Token, normalized.ExternalOrderID, normalized.CompletedAt)
	if err != nil {
		return err
	}
	s.logger.Debug("Checkout completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("token", normalized.Token),
		zap.String("external_order_id", normalized.ExternalOrderID),
	)
	return nil
}

// AbandonedCarts returns the tenant's carts classified as abandoned at
// the cutoff, including rows the sweep has not materialized yet
func (s *FunnelService) AbandonedCarts(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]commerce.CartEvent, error) {
	return s.repo.FindAbandonedCarts(ctx, tenantID, olderThan)
}

// AbandonedCheckouts returns the tenant's checkouts classified as
// abandoned at the cutoff
func (s *FunnelService) AbandonedCheckouts(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]commerce.CheckoutEvent, error) {
	return s.repo.FindAbandonedCheckouts(ctx, tenantID, olderThan)
}

// SweepAbandoned materializes the abandoned flag on funnel rows older
// than the cutoff; completed checkouts are never touched
func (s *FunnelService) SweepAbandoned(ctx context.Context, olderThan time.Time) (int64, int64, error) {
	carts, err := s.repo.MarkCartsAbandoned(ctx, olderThan)
	if err != nil {
		return 0, 0, err
	}
	checkouts, err := s.repo.MarkCheckoutsAbandoned(ctx, olderThan)
	if err != nil {
		return carts, 0, err
	}
	return carts, checkouts, nil
}
