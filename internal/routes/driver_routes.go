package routes

import (
	"github.com/gin-gonic/gin"

	"vezoh_backend/internal/controllers"
	"vezoh_backend/internal/middleware"
)

func DriverRoutes(r *gin.Engine, d *controllers.DriverController) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireAuthWithRole("driver"))
	{
		driver.POST("/submit-verification", d.SubmitForVerification)
		driver.GET("/verification-status", d.GetVerificationStatus)
		driver.PATCH("/status", d.UpdateStatus)
	}
}
