package routes

import (
	"time"

	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

func registerDashboardRoutes(api *echo.Group, ctl *controllers.DashboardController, authMw *middleware.AuthMiddleware, store *gocache.Cache, ttl time.Duration, logger *zap.Logger) {
	dashboard := api.Group("/dashboard", authMw.Auth)
	dashboard.GET("/summary", ctl.GetSummary,
		middleware.RequirePermission(authz.DashboardView, logger),
		middleware.Cache(store, ttl))
}
