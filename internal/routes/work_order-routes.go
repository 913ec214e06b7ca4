package routes

import (
	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerWorkOrderRoutes(api *echo.Group, ctl *controllers.WorkOrderController, authMw *middleware.AuthMiddleware, logger *zap.Logger) {
	orders := api.Group("/work-orders", authMw.Auth)
	orders.GET("", ctl.GetWorkOrders, middleware.RequirePermission(authz.WorkOrdersView, logger))
	orders.GET("/:id", ctl.GetWorkOrder, middleware.RequirePermission(authz.WorkOrdersView, logger))
	orders.POST("", ctl.CreateWorkOrder, middleware.RequirePermission(authz.WorkOrdersCreate, logger))
	orders.PUT("/:id", ctl.UpdateWorkOrder, middleware.RequirePermission(authz.WorkOrdersUpdate, logger))
	orders.PUT("/:id/assign", ctl.AssignWorkOrder, middleware.RequirePermission(authz.WorkOrdersAssign, logger))
	orders.DELETE("/:id", ctl.DeleteWorkOrder, middleware.RequirePermission(authz.WorkOrdersDelete, logger))
	orders.POST("/recalculate-priorities", ctl.RecalculatePriorities, middleware.RequirePermission(authz.WorkOrdersUpdate, logger))
}
