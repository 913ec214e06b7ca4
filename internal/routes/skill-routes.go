package routes

import (
	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerSkillRoutes(api *echo.Group, ctl *controllers.SkillController, authMw *middleware.AuthMiddleware, logger *zap.Logger) {
	skills := api.Group("/skills", authMw.Auth)
	skills.GET("", ctl.GetSkills, middleware.RequirePermission(authz.CatalogsView, logger))
	skills.GET("/:id", ctl.GetSkill, middleware.RequirePermission(authz.CatalogsView, logger))
	skills.POST("", ctl.CreateSkill, middleware.RequirePermission(authz.SkillsManage, logger))
	skills.PUT("/:id", ctl.UpdateSkill, middleware.RequirePermission(authz.SkillsManage, logger))
	skills.DELETE("/:id", ctl.DeleteSkill, middleware.RequirePermission(authz.SkillsManage, logger))

	technicianSkills := api.Group("/technician-skills", authMw.Auth)
	technicianSkills.GET("/:userId", ctl.GetTechnicianSkills, middleware.RequirePermission(authz.UsersView, logger))
	technicianSkills.PUT("", ctl.UpsertTechnicianSkill, middleware.RequirePermission(authz.SkillsManage, logger))
	technicianSkills.DELETE("/:userId/:skillId", ctl.DeleteTechnicianSkill, middleware.RequirePermission(authz.SkillsManage, logger))
}
