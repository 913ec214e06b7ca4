package routes

import (
	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerCatalogRoutes(api *echo.Group, clientCtl *controllers.ClientController, labCtl *controllers.LaboratoryController, authMw *middleware.AuthMiddleware, logger *zap.Logger) {
	clients := api.Group("/clients", authMw.Auth)
	clients.GET("", clientCtl.GetClients, middleware.RequirePermission(authz.CatalogsView, logger))
	clients.GET("/:id", clientCtl.GetClient, middleware.RequirePermission(authz.CatalogsView, logger))
	clients.POST("", clientCtl.CreateClient, middleware.RequirePermission(authz.CatalogsCreate, logger))
	clients.PUT("/:id", clientCtl.UpdateClient, middleware.RequirePermission(authz.CatalogsUpdate, logger))
	clients.DELETE("/:id", clientCtl.DeleteClient, middleware.RequirePermission(authz.CatalogsDelete, logger))

	labs := api.Group("/laboratories", authMw.Auth)
	labs.GET("", labCtl.GetLaboratories, middleware.RequirePermission(authz.CatalogsView, logger))
	labs.GET("/:id", labCtl.GetLaboratory, middleware.RequirePermission(authz.CatalogsView, logger))
	labs.POST("", labCtl.CreateLaboratory, middleware.RequirePermission(authz.CatalogsCreate, logger))
	labs.PUT("/:id", labCtl.UpdateLaboratory, middleware.RequirePermission(authz.CatalogsUpdate, logger))
	labs.DELETE("/:id", labCtl.DeleteLaboratory, middleware.RequirePermission(authz.CatalogsDelete, logger))
}
