package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/middleware"
	"github.com/travelhub/seatmap-service/pkg/jwt"
)

// Router bundles the handlers mounted by RegisterRoutes
type Router struct {
	Trips    *TripHandler
	SeatMaps *SeatMapHandler
	Admin    *AdminHandler
	JWT      *jwt.Service
	Logger   *logrus.Logger
}

// RegisterRoutes mounts the public health check and the authenticated v1 API
func (r *Router) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", r.Admin.Health)

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(r.JWT, r.Logger))

	mutate := middleware.RequireRole(jwt.RoleOperator, jwt.RoleAdmin)

	trips := v1.Group("/trips")
	{
		trips.POST("", mutate, r.Trips.CreateTrip)
		trips.GET("", r.Trips.ListTrips)
		trips.GET("/:tripId", r.Trips.GetTrip)
		trips.PATCH("/:tripId", mutate, r.Trips.UpdateTrip)

		trips.GET("/:tripId/seats", r.SeatMaps.GetSeatMap)
		trips.GET("/:tripId/seats/summary", r.SeatMaps.GetSummary)
		trips.POST("/:tripId/seats/generate", mutate, r.SeatMaps.Reconcile)
		trips.GET("/:tripId/seats/reconcile/preview", r.SeatMaps.PreviewReconcile)
		trips.POST("/:tripId/seats/reconcile", mutate, r.SeatMaps.Reconcile)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.RequireRole(jwt.RoleAdmin))
	{
		admin.POST("/cron/reconcile", r.Admin.RunReconcileNow)
		admin.GET("/cron/status", r.Admin.GetCronStatus)
	}
}
