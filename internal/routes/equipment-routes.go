package routes

import (
	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerEquipmentRoutes(api *echo.Group, ctl *controllers.EquipmentController, authMw *middleware.AuthMiddleware, logger *zap.Logger) {
	equipments := api.Group("/equipments", authMw.Auth)
	equipments.GET("", ctl.GetEquipments, middleware.RequirePermission(authz.EquipmentView, logger))
	equipments.GET("/:id", ctl.GetEquipment, middleware.RequirePermission(authz.EquipmentView, logger))
	equipments.POST("", ctl.CreateEquipment, middleware.RequirePermission(authz.EquipmentCreate, logger))
	equipments.PUT("/:id", ctl.UpdateEquipment, middleware.RequirePermission(authz.EquipmentUpdate, logger))
	equipments.DELETE("/:id", ctl.DeleteEquipment, middleware.RequirePermission(authz.EquipmentDelete, logger))

	equipments.GET("/:id/requirements", ctl.GetSkillRequirements, middleware.RequirePermission(authz.EquipmentView, logger))
	equipments.PUT("/:id/requirements", ctl.SetSkillRequirements, middleware.RequirePermission(authz.SkillsManage, logger))
	equipments.GET("/:id/candidates", ctl.GetCandidates, middleware.RequirePermission(authz.EquipmentView, logger))
}
