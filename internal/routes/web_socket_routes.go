package routes

import (
	"github.com/gin-gonic/gin"

	"vezoh_backend/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, l *controllers.LocationWSController) {
	r.GET("/ws/location", l.HandleLocationWebSocket)
}
