package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storepulse/backend/internal/domain/commerce"
	"github.com/storepulse/backend/internal/domain/ingest"
	"github.com/storepulse/backend/internal/domain/tenant"
	"github.com/storepulse/backend/internal/infrastructure/scheduler"
)

// ResourceReport counts the outcome of one resource's pull
type ResourceReport struct {
	Fetched int `json:"fetched"`
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

// TenantSyncReport is the outcome of one tenant's bulk pull
type TenantSyncReport struct {
	TenantID    uuid.UUID      `json:"tenant_id"`
	ShopDomain  string         `json:"shop_domain"`
	Customers   ResourceReport `json:"customers"`
	Products    ResourceReport `json:"products"`
	Orders      ResourceReport `json:"orders"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
}

// TotalFetched returns the number of records pulled across resources
func (r *TenantSyncReport) TotalFetched() int {
	return r.Customers.Fetched + r.Products.Fetched + r.Orders.Fetched
}

// TotalSynced returns the number of records reconciled across resources
func (r *TenantSyncReport) TotalSynced() int {
	return r.Customers.Synced + r.Products.Synced + r.Orders.Synced
}

// TotalSkipped returns the number of records that failed and were skipped
func (r *TenantSyncReport) TotalSkipped() int {
	return r.Customers.Skipped + r.Products.Skipped + r.Orders.Skipped
}

// TenantRunResult is one tenant's entry in a full sync run
type TenantRunResult struct {
	TenantID   uuid.UUID         `json:"tenant_id"`
	ShopDomain string            `json:"shop_domain"`
	Report     *TenantSyncReport `json:"report,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// SyncRunReport is the outcome of syncing every active tenant
type SyncRunReport struct {
	Tenants     []TenantRunResult `json:"tenants"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
}

// SyncService pulls a tenant's full catalog from the storefront Admin
// API and reconciles it through the same normalize-and-upsert path as
// webhook deliveries. Resources sync customers first so orders can link,
// then products, then orders. A failed record is skipped and counted,
// never aborting the pull.
type SyncService struct {
	directory  *TenantDirectory
	client     ingest.StorefrontClient
	normalizer *ingest.Normalizer
	customers  commerce.CustomerRepository
	products   commerce.ProductRepository
	webhooks   *WebhookService
	pageSize   int
	logger     *zap.Logger
}

// NewSyncService creates a sync service
func NewSyncService(
	directory *TenantDirectory,
	client ingest.StorefrontClient,
	normalizer *ingest.Normalizer,
	customers commerce.CustomerRepository,
	products commerce.ProductRepository,
	webhooks *WebhookService,
	pageSize int,
	logger *zap.Logger,
) *SyncService {
	if pageSize < 1 || pageSize > 250 {
		pageSize = 250
	}
	return &SyncService{
		directory:  directory,
		client:     client,
		normalizer: normalizer,
		customers:  customers,
		products:   products,
		webhooks:   webhooks,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// SyncTenant pulls and reconciles one tenant's customers, products and
// orders. Inactive tenants are not synced.
func (s *SyncService) SyncTenant(ctx context.Context, tenantID uuid.UUID) (*TenantSyncReport, error) {
	t, err := s.directory.ResolveID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive() {
		return nil, ingest.ErrTenantInactive
	}
	return s.syncResolved(ctx, t)
}

func (s *SyncService) syncResolved(ctx context.Context, t *tenant.Tenant) (*TenantSyncReport, error) {
	report := &TenantSyncReport{
		TenantID:   t.ID,
		ShopDomain: t.ShopDomain,
		StartedAt:  time.Now(),
	}

	// Customers before orders so order payloads can link to local rows
	if err := s.syncResource(ctx, t, "customers", s.client.FetchCustomers, s.reconcileCustomer, &report.Customers); err != nil {
		return nil, err
	}
	if err := s.syncResource(ctx, t, "products", s.client.FetchProducts, s.reconcileProduct, &report.Products); err != nil {
		return nil, err
	}
	if err := s.syncResource(ctx, t, "orders", s.client.FetchOrders, s.reconcileOrderRecord, &report.Orders); err != nil {
		return nil, err
	}

	report.CompletedAt = time.Now()
	s.logger.Info("Tenant sync completed",
		zap.String("tenant_id", t.ID.String()),
		zap.String("shop_domain", t.ShopDomain),
		zap.Int("fetched", report.TotalFetched()),
		zap.Int("synced", report.TotalSynced()),
		zap.Int("skipped", report.TotalSkipped()),
	)
	return report, nil
}

type fetchFunc func(ctx context.Context, t *tenant.Tenant, sinceID string, limit int) (*ingest.Page, error)
type reconcileFunc func(ctx context.Context, t *tenant.Tenant, record ingest.Record) error

// syncResource walks one resource with since_id paging. Fetch failures
// abort the pull; record failures are logged, counted and skipped.
func (s *SyncService) syncResource(ctx context.Context, t *tenant.Tenant, resource string, fetch fetchFunc, reconcile reconcileFunc, report *ResourceReport) error {
	sinceID := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := fetch(ctx, t, sinceID, s.pageSize)
		if err != nil {
			return fmt.Errorf("fetching %s for %s: %w", resource, t.ShopDomain, err)
		}

		for _, record := range page.Records {
			report.Fetched++
			if err := reconcile(ctx, t, record); err != nil {
				report.Skipped++
				s.logger.Warn("Skipping record that failed to reconcile",
					zap.String("tenant_id", t.ID.String()),
					zap.String("resource", resource),
					zap.Error(err),
				)
				continue
			}
			report.Synced++
		}

		if !page.HasMore(s.pageSize) {
			return nil
		}
		sinceID = page.LastID
	}
}

func (s *SyncService) reconcileCustomer(ctx context.Context, t *tenant.Tenant, record ingest.Record) error {
	externalID, patch, err := s.normalizer.Customer(record)
	if err != nil {
		return err
	}
	_, err = s.customers.Upsert(ctx, t.ID, externalID, patch)
	return err
}

func (s *SyncService) reconcileProduct(ctx context.Context, t *tenant.Tenant, record ingest.Record) error {
	externalID, patch, err := s.normalizer.Product(record)
	if err != nil {
		return err
	}
	_, err = s.products.Upsert(ctx, t.ID, externalID, patch)
	return err
}

func (s *SyncService) reconcileOrderRecord(ctx context.Context, t *tenant.Tenant, record ingest.Record) error {
	return s.webhooks.reconcileOrder(ctx, t, record)
}

// SyncAllActive syncs every active tenant sequentially. One tenant's
// failure is recorded and does not block the others.
func (s *SyncService) SyncAllActive(ctx context.Context) (*SyncRunReport, error) {
	tenants, err := s.directory.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	run := &SyncRunReport{
		Tenants:   make([]TenantRunResult, 0, len(tenants)),
		StartedAt: time.Now(),
	}

	for i := range tenants {
		t := &tenants[i]
		result := TenantRunResult{TenantID: t.ID, ShopDomain: t.ShopDomain}

		report, err := s.syncResolved(ctx, t)
		if err != nil {
			result.Error = err.Error()
			s.logger.Error("Tenant sync failed",
				zap.String("tenant_id", t.ID.String()),
				zap.String("shop_domain", t.ShopDomain),
				zap.Error(err),
			)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				run.Tenants = append(run.Tenants, result)
				run.CompletedAt = time.Now()
				return run, err
			}
		} else {
			result.Report = report
		}
		run.Tenants = append(run.Tenants, result)
	}

	run.CompletedAt = time.Now()
	return run, nil
}

// SyncJobExecutor adapts the sync service to the scheduler's executor
// port so scheduled jobs run the same pull as manual syncs
type SyncJobExecutor struct {
	service *SyncService
}

// NewSyncJobExecutor creates a scheduler executor backed by the sync service
func NewSyncJobExecutor(service *SyncService) *SyncJobExecutor {
	return &SyncJobExecutor{service: service}
}

// Execute runs the tenant pull for a scheduled job and records counts on it
func (e *SyncJobExecutor) Execute(ctx context.Context, job *scheduler.SyncJob) error {
	report, err := e.service.SyncTenant(ctx, job.TenantID)
	if err != nil {
		return err
	}
	job.Complete(report.TotalFetched(), report.TotalSynced(), report.TotalSkipped())
	return nil
}

// Ensure SyncJobExecutor implements scheduler.SyncExecutor
var _ scheduler.SyncExecutor = (*SyncJobExecutor)(nil)
