package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/middleware"
	"github.com/travelhub/seatmap-service/internal/models"
	"github.com/travelhub/seatmap-service/internal/services"
)

// TripHandler handles trip HTTP requests
type TripHandler struct {
	tripService *services.TripService
	logger      *logrus.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripService *services.TripService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// CreateTrip creates a trip and provisions its seats
// POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	trip, result, err := h.tripService.CreateTrip(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create trip")
		return
	}

	fields := logrus.Fields{"trip_id": trip.ID}
	if operator, ok := middleware.GetOperatorContext(c); ok {
		fields["operator_id"] = operator.OperatorID.String()
	}
	h.logger.WithFields(fields).Info("Trip created via API")

	c.JSON(http.StatusCreated, gin.H{
		"trip":              trip,
		"seats_provisioned": result != nil,
		"seat_plan":         result,
	})
}

// ListTrips lists trips by departure date
// GET /api/v1/trips?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *TripHandler) ListTrips(c *gin.Context) {
	trips, err := h.tripService.ListTrips(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to list trips")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// GetTrip returns a single trip
// GET /api/v1/trips/:tripId
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// UpdateTrip corrects a trip and reconciles its seats
// PATCH /api/v1/trips/:tripId
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	trip, result, err := h.tripService.UpdateTrip(c.Request.Context(), c.Param("tripId"), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update trip")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip":      trip,
		"seat_plan": result,
	})
}
