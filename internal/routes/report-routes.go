package routes

import (
	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerReportRoutes(api *echo.Group, ctl *controllers.ReportController, authMw *middleware.AuthMiddleware, logger *zap.Logger) {
	reports := api.Group("/reports", authMw.Auth, middleware.RequirePermission(authz.ReportsView, logger))
	reports.GET("/work-orders", ctl.GetWorkOrderReport)
	reports.GET("/utilization", ctl.GetUtilizationReport)
}
