package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appingest "github.com/storepulse/backend/internal/application/ingest"
	"github.com/storepulse/backend/internal/domain/ingest"
	"github.com/storepulse/backend/internal/infrastructure/scheduler"
	"github.com/storepulse/backend/internal/interfaces/http/dto"
)

// SyncRunner runs a bulk pull for one tenant
type SyncRunner interface {
	SyncTenant(ctx context.Context, tenantID uuid.UUID) (*appingest.TenantSyncReport, error)
}

// JobHistoryProvider exposes recent scheduled sync jobs
type JobHistoryProvider interface {
	GetJobHistory(limit int) []*scheduler.SyncJob
}

// SyncHandler exposes the manual sync trigger and job history endpoints
type SyncHandler struct {
	runner  SyncRunner
	history JobHistoryProvider
	logger  *zap.Logger
}

// NewSyncHandler creates a sync handler. The history provider is nil
// when the scheduler is disabled.
func NewSyncHandler(runner SyncRunner, history JobHistoryProvider, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		runner:  runner,
		history: history,
		logger:  logger,
	}
}

// RegisterRoutes registers the sync endpoints
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.triggerSync)
	rg.GET("/sync/history", h.jobHistory)
}

// triggerSync runs a synchronous bulk pull for one tenant and returns
// its report
func (h *SyncHandler) triggerSync(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_REQUEST", "tenant_id is required and must be a UUID"))
		return
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_REQUEST", "tenant_id must be a UUID"))
		return
	}

	report, err := h.runner.SyncTenant(c.Request.Context(), tenantID)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrTenantNotFound):
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("TENANT_NOT_FOUND", "No store is registered with this ID"))
		case errors.Is(err, ingest.ErrTenantInactive):
			c.JSON(http.StatusForbidden, dto.NewErrorResponse("TENANT_INACTIVE", "Sync is disabled for this store"))
		case errors.Is(err, ingest.ErrUpstreamUnavailable):
			c.JSON(http.StatusBadGateway, dto.NewErrorResponse("UPSTREAM_UNAVAILABLE", "The storefront API could not be reached"))
		default:
			h.logger.Error("Manual sync failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL_ERROR", "Sync failed"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// jobHistory returns recent scheduled sync jobs, newest first
func (h *SyncHandler) jobHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, dto.NewSuccessResponse([]*scheduler.SyncJob{}))
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(h.history.GetJobHistory(limit)))
}
