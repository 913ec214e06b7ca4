package routes

import (
	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerReservationRoutes(api *echo.Group, ctl *controllers.ReservationController, authMw *middleware.AuthMiddleware, logger *zap.Logger) {
	reservations := api.Group("/reservations", authMw.Auth)
	reservations.GET("", ctl.GetReservations, middleware.RequirePermission(authz.ReservationsView, logger))
	reservations.GET("/:id", ctl.GetReservation, middleware.RequirePermission(authz.ReservationsView, logger))
	reservations.POST("", ctl.CreateReservation, middleware.RequirePermission(authz.ReservationsCreate, logger))
	reservations.PUT("/:id/status", ctl.TransitionReservation, middleware.RequirePermission(authz.ReservationsUpdate, logger))
	reservations.PUT("/:id/reschedule", ctl.RescheduleReservation, middleware.RequirePermission(authz.ReservationsUpdate, logger))
}
