package routes

import (
	"github.com/gin-gonic/gin"

	"vezoh_backend/internal/controllers"
	"vezoh_backend/internal/middleware"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/drivers/under-review", controllers.ListDriversUnderReview)
		admin.GET("/drivers/:id", controllers.GetDriverApplication)
		admin.POST("/drivers/:id/review", controllers.ReviewDriver)
	}
}
