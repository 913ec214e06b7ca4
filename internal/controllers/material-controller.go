package controllers

import (
	"net/http"

	"lab-system/internal/dto"
	"lab-system/internal/services"
	"lab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MaterialController struct {
	svc    services.MaterialServiceInterface
	logger *zap.Logger
}

func NewMaterialController(svc services.MaterialServiceInterface, logger *zap.Logger) *MaterialController {
	return &MaterialController{svc: svc, logger: logger}
}

func (c *MaterialController) GetMaterials(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	materials, total, err := c.svc.GetMaterials(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, materials, "Materials retrieved", http.StatusOK, total)
}

func (c *MaterialController) GetMaterial(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	material, err := c.svc.FindMaterial(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, material, "Material retrieved", http.StatusOK)
}

func (c *MaterialController) CreateMaterial(ctx echo.Context) error {
	var payload dto.CreateMaterialDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	material, err := c.svc.CreateMaterial(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, material, "Material created", http.StatusCreated)
}

func (c *MaterialController) UpdateMaterial(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateMaterialDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.svc.UpdateMaterial(ctx.Request().Context(), id, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Material updated", http.StatusOK)
}

func (c *MaterialController) DeleteMaterial(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.svc.DeleteMaterial(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Material deleted", http.StatusOK)
}

func (c *MaterialController) AdjustStock(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AdjustStockDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	material, err := c.svc.AdjustStock(ctx.Request().Context(), id, actorID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, material, "Stock adjusted", http.StatusOK)
}

func (c *MaterialController) GetMovements(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	movements, total, err := c.svc.GetMovements(ctx.Request().Context(), id, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, movements, "Movements retrieved", http.StatusOK, total)
}
