package routes

import (
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func registerAuthRoutes(api *echo.Group, ctl *controllers.AuthController, authMw *middleware.AuthMiddleware) {
	auth := api.Group("/auth")
	auth.POST("/login", ctl.Login)
	auth.POST("/refresh", ctl.Refresh)
	auth.POST("/change-password", ctl.ChangePassword, authMw.Auth)
}
