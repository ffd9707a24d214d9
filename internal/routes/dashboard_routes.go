package routes

import (
	"github.com/gin-gonic/gin"

	"vezoh_backend/internal/controllers"
	"vezoh_backend/internal/middleware"
)

func DashboardRoutes(r *gin.Engine, d *controllers.DashboardController) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.RequireAuthWithRole("user"))
	{
		dashboard.GET("/nearby-drivers", d.NearbyDrivers)
		dashboard.POST("/distance", d.Distance)
		dashboard.GET("/geocode", d.Geocode)
		dashboard.GET("/autocomplete", d.Autocomplete)
		dashboard.POST("/fare-estimate", d.FareEstimate)

		dashboard.POST("/rides", d.RequestRide)
		dashboard.GET("/rides/active", d.ActiveRides)
		dashboard.GET("/rides/:ref", d.GetRide)
		dashboard.POST("/rides/:ref/cancel", d.CancelRide)
	}
}
