package controllers

import (
	"net/http"

	"lab-system/internal/services"
	"lab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DashboardController struct {
	svc    services.DashboardServiceInterface
	logger *zap.Logger
}

func NewDashboardController(svc services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{svc: svc, logger: logger}
}

func (c *DashboardController) GetSummary(ctx echo.Context) error {
	summary, err := c.svc.GetSummary(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summary, "Dashboard summary retrieved", http.StatusOK)
}
