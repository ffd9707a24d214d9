package routes

import (
	"github.com/gin-gonic/gin"

	"vezoh_backend/internal/controllers"
	"vezoh_backend/internal/middleware"
)

func AuthRoutes(r *gin.Engine, a *controllers.AuthController) {
	auth := r.Group("/auth")
	{
		auth.POST("/user/register", a.RegisterUser)
		auth.POST("/driver/register", a.RegisterDriver)
		auth.POST("/user/login", a.LoginUser)
		auth.POST("/driver/login", a.LoginDriver)
		auth.POST("/admin/login", a.AdminLogin)
		auth.POST("/forgot-password", a.ForgotPassword)
		auth.POST("/reset-password", a.ResetPassword)
	}

	authed := r.Group("/auth")
	authed.Use(middleware.RequireAuth())
	{
		authed.POST("/verify-email-otp", a.VerifyEmailOTP)
		authed.POST("/resend-email-otp", a.ResendEmailOTP)
		authed.POST("/change-password", a.ChangePassword)
		authed.GET("/profile", a.GetProfile)
		authed.POST("/logout", a.Logout)
	}
}
