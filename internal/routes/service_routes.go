package routes

import (
	"github.com/gin-gonic/gin"

	"vezoh_backend/internal/controllers"
)

func ServiceRoutes(r *gin.Engine) {
	services := r.Group("/services")
	{
		services.GET("", controllers.ListServices)
		services.GET("/:serviceId", controllers.GetService)
	}
}
