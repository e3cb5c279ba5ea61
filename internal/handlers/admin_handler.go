package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/database"
	"github.com/travelhub/seatmap-service/internal/services"
)

// sweepTimeout bounds an admin-triggered sweep, which outlives the request that started it
const sweepTimeout = 10 * time.Minute

// AdminHandler handles operational endpoints
type AdminHandler struct {
	cronService *services.CronService
	store       database.Store
	logger      *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler. cronService may be nil when scheduling is disabled.
func NewAdminHandler(cronService *services.CronService, store database.Store, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		cronService: cronService,
		store:       store,
		logger:      logger,
	}
}

// Health reports whether the store is reachable
// GET /health
func (h *AdminHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WithError(err).Error("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}

// RunReconcileNow triggers the stale seat map sweep
// POST /api/v1/admin/cron/reconcile
func (h *AdminHandler) RunReconcileNow(c *gin.Context) {
	if h.cronService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cron service is disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), sweepTimeout)
	defer cancel()

	run, err := h.cronService.RunReconcileNow(ctx)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetCronStatus returns the scheduled jobs and the last sweep
// GET /api/v1/admin/cron/status
func (h *AdminHandler) GetCronStatus(c *gin.Context) {
	if h.cronService == nil {
		c.JSON(http.StatusOK, gin.H{"scheduled": false})
		return
	}

	c.JSON(http.StatusOK, h.cronService.GetJobStatus())
}
