package routes

import (
	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerUserRoutes(api *echo.Group, ctl *controllers.UserController, authMw *middleware.AuthMiddleware, logger *zap.Logger) {
	users := api.Group("/users", authMw.Auth)
	users.GET("/me", ctl.GetProfile)
	users.GET("", ctl.GetUsers, middleware.RequirePermission(authz.UsersView, logger))
	users.GET("/:id", ctl.GetUser, middleware.RequirePermission(authz.UsersView, logger))
	users.POST("", ctl.CreateUser, middleware.RequirePermission(authz.UsersCreate, logger))
	users.PUT("/:id", ctl.UpdateUser, middleware.RequirePermission(authz.UsersUpdate, logger))
	users.DELETE("/:id", ctl.DeleteUser, middleware.RequirePermission(authz.UsersDelete, logger))
}
