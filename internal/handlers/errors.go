package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/database"
	"github.com/travelhub/seatmap-service/internal/seatmap"
	"github.com/travelhub/seatmap-service/internal/services"
)

// respondError writes the HTTP response for a service error. Kernel error kinds are
// reported with the trip they happened on.
func respondError(c *gin.Context, logger *logrus.Logger, err error, message string) {
	body := gin.H{"error": message}

	var tripErr *services.TripError
	if errors.As(err, &tripErr) {
		body["trip_id"] = tripErr.TripID
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{"path": c.FullPath()})

	switch {
	case errors.Is(err, services.ErrTripNotFound):
		body["error"] = "Trip not found"
		c.JSON(http.StatusNotFound, body)

	case seatmap.KindName(err) != "":
		entry.Warn(message)
		body["error"] = err.Error()
		body["error_kind"] = seatmap.KindName(err)
		c.JSON(http.StatusUnprocessableEntity, body)

	case errors.Is(err, services.ErrTripValidation):
		body["details"] = err.Error()
		c.JSON(http.StatusBadRequest, body)

	case errors.Is(err, database.ErrConflict):
		entry.Warn(message)
		body["details"] = "the trip was changed concurrently, retry the request"
		c.JSON(http.StatusConflict, body)

	default:
		entry.Error(message)
		c.JSON(http.StatusInternalServerError, body)
	}
}
