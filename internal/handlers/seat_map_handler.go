package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/services"
)

// SeatMapHandler handles seat map HTTP requests
type SeatMapHandler struct {
	seatMaps *services.SeatMapService
	logger   *logrus.Logger
}

// NewSeatMapHandler creates a new SeatMapHandler
func NewSeatMapHandler(seatMaps *services.SeatMapService, logger *logrus.Logger) *SeatMapHandler {
	return &SeatMapHandler{
		seatMaps: seatMaps,
		logger:   logger,
	}
}

// GetSeatMap returns every seat of a trip with a summary and the row layout
// GET /api/v1/trips/:tripId/seats
func (h *SeatMapHandler) GetSeatMap(c *gin.Context) {
	seatMap, err := h.seatMaps.GetSeatMap(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get seat map")
		return
	}

	c.JSON(http.StatusOK, seatMap)
}

// GetSummary returns seat counts by availability
// GET /api/v1/trips/:tripId/seats/summary
func (h *SeatMapHandler) GetSummary(c *gin.Context) {
	summary, err := h.seatMaps.GetSummary(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get seat summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// PreviewReconcile returns the plan a reconciliation would apply
// GET /api/v1/trips/:tripId/seats/reconcile/preview
func (h *SeatMapHandler) PreviewReconcile(c *gin.Context) {
	result, err := h.seatMaps.Preview(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to preview seat reconciliation")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reconcile brings the trip's seats in line with the trip. Generating seats for a new
// trip is the same operation.
// POST /api/v1/trips/:tripId/seats/reconcile
// POST /api/v1/trips/:tripId/seats/generate
func (h *SeatMapHandler) Reconcile(c *gin.Context) {
	result, err := h.seatMaps.Reconcile(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to reconcile seats")
		return
	}

	c.JSON(http.StatusOK, result)
}
