package routes

import (
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vezoh_backend/internal/controllers"
)

// Controllers bundles the handler instances built in main.
type Controllers struct {
	Auth       *controllers.AuthController
	Driver     *controllers.DriverController
	Dashboard  *controllers.DashboardController
	LocationWS *controllers.LocationWSController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(ginlogger.SetLogger(
		ginlogger.WithLogger(func(_ *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().Str("component", "http").Logger()
		}),
	), gin.Recovery())

	AuthRoutes(r, ctrl.Auth)
	DriverRoutes(r, ctrl.Driver)
	AdminRoutes(r)
	DashboardRoutes(r, ctrl.Dashboard)
	ServiceRoutes(r)
	WebSocketRoutes(r, ctrl.LocationWS)

	return r
}
