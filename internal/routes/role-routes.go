package routes

import (
	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerRoleRoutes(api *echo.Group, ctl *controllers.RoleController, authMw *middleware.AuthMiddleware, logger *zap.Logger) {
	roles := api.Group("/roles", authMw.Auth)
	roles.GET("", ctl.GetRoles, middleware.RequirePermission(authz.RolesView, logger))
	roles.GET("/:id", ctl.GetRole, middleware.RequirePermission(authz.RolesView, logger))
	roles.POST("", ctl.CreateRole, middleware.RequirePermission(authz.RolesCreate, logger))
	roles.PUT("/:id", ctl.UpdateRole, middleware.RequirePermission(authz.RolesUpdate, logger))
	roles.DELETE("/:id", ctl.DeleteRole, middleware.RequirePermission(authz.RolesDelete, logger))
	roles.PUT("/:id/permissions", ctl.SetRolePermissions, middleware.RequirePermission(authz.RolesUpdate, logger))

	permissions := api.Group("/permissions", authMw.Auth)
	permissions.GET("", ctl.GetPermissions, middleware.RequirePermission(authz.PermissionsView, logger))
}
