package routes

import (
	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerMaterialRoutes(api *echo.Group, ctl *controllers.MaterialController, authMw *middleware.AuthMiddleware, logger *zap.Logger) {
	materials := api.Group("/materials", authMw.Auth)
	materials.GET("", ctl.GetMaterials, middleware.RequirePermission(authz.CatalogsView, logger))
	materials.GET("/:id", ctl.GetMaterial, middleware.RequirePermission(authz.CatalogsView, logger))
	materials.POST("", ctl.CreateMaterial, middleware.RequirePermission(authz.CatalogsCreate, logger))
	materials.PUT("/:id", ctl.UpdateMaterial, middleware.RequirePermission(authz.CatalogsUpdate, logger))
	materials.DELETE("/:id", ctl.DeleteMaterial, middleware.RequirePermission(authz.CatalogsDelete, logger))

	materials.POST("/:id/adjust", ctl.AdjustStock, middleware.RequirePermission(authz.MaterialsAdjust, logger))
	materials.GET("/:id/movements", ctl.GetMovements, middleware.RequirePermission(authz.CatalogsView, logger))
}
