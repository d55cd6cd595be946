package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storepulse/backend/internal/domain/tenant"
)

// TenantSource enumerates the tenants eligible for a scheduled sync
type TenantSource interface {
	ListActive(ctx context.Context) ([]tenant.Tenant, error)
}

// FunnelSweeper materializes the abandoned classification on funnel rows
// older than the cutoff. It runs piggybacked on the sync interval.
type FunnelSweeper interface {
	SweepAbandoned(ctx context.Context, olderThan time.Time) (carts, checkouts int64, err error)
}

// SyncTriggerConfig holds configuration for the periodic sync trigger
type SyncTriggerConfig struct {
	// Interval is how often every active tenant is scheduled for a pull
	Interval time.Duration
	// AbandonAfter is the funnel age past which rows without a
	// completion count as abandoned
	AbandonAfter time.Duration
}

// SyncTrigger schedules a sync job for every active tenant on a fixed
// interval and runs the funnel abandonment sweep alongside.
type SyncTrigger struct {
	config    SyncTriggerConfig
	scheduler *SyncScheduler
	tenants   TenantSource
	sweeper   FunnelSweeper
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncTrigger creates a new periodic sync trigger
func NewSyncTrigger(config SyncTriggerConfig, scheduler *SyncScheduler, tenants TenantSource, sweeper FunnelSweeper, logger *zap.Logger) *SyncTrigger {
	return &SyncTrigger{
		config:    config,
		scheduler: scheduler,
		tenants:   tenants,
		sweeper:   sweeper,
		logger:    logger,
	}
}

// Start starts the trigger loop
func (t *SyncTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Sync trigger started",
		zap.Duration("interval", t.config.Interval),
		zap.Duration("abandon_after", t.config.AbandonAfter),
	)

	return nil
}

// Stop stops the trigger loop
func (t *SyncTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()

	t.logger.Info("Sync trigger stopped")
}

func (t *SyncTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// tick schedules one sync job per active tenant and runs the sweep
func (t *SyncTrigger) tick(ctx context.Context) {
	tenants, err := t.tenants.ListActive(ctx)
	if err != nil {
		t.logger.Error("Failed to list active tenants for sync", zap.Error(err))
	} else {
		for i := range tenants {
			tn := &tenants[i]
			if err := t.scheduler.ScheduleSync(tn.ID, tn.ShopDomain); err != nil {
				t.logger.Warn("Failed to schedule tenant sync",
					zap.String("tenant_id", tn.ID.String()),
					zap.String("shop_domain", tn.ShopDomain),
					zap.Error(err),
				)
			}
		}
	}

	if t.sweeper == nil {
		return
	}
	cutoff := time.Now().Add(-t.config.AbandonAfter)
	carts, checkouts, err := t.sweeper.SweepAbandoned(ctx, cutoff)
	if err != nil {
		t.logger.Error("Funnel abandonment sweep failed", zap.Error(err))
		return
	}
	if carts > 0 || checkouts > 0 {
		t.logger.Info("Funnel abandonment sweep completed",
			zap.Int64("carts_marked", carts),
			zap.Int64("checkouts_marked", checkouts),
		)
	}
}
