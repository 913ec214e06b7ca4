package controllers

import (
	"net/http"

	"lab-system/internal/dto"
	"lab-system/internal/services"
	"lab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SkillController struct {
	svc    services.SkillServiceInterface
	logger *zap.Logger
}

func NewSkillController(svc services.SkillServiceInterface, logger *zap.Logger) *SkillController {
	return &SkillController{svc: svc, logger: logger}
}

func (c *SkillController) GetSkills(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	skills, total, err := c.svc.GetSkills(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, skills, "Skills retrieved", http.StatusOK, total)
}

func (c *SkillController) GetSkill(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	skill, err := c.svc.FindSkill(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, skill, "Skill retrieved", http.StatusOK)
}

func (c *SkillController) CreateSkill(ctx echo.Context) error {
	var payload dto.CreateSkillDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	skill, err := c.svc.CreateSkill(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, skill, "Skill created", http.StatusCreated)
}

func (c *SkillController) UpdateSkill(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateSkillDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.svc.UpdateSkill(ctx.Request().Context(), id, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Skill updated", http.StatusOK)
}

func (c *SkillController) DeleteSkill(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.svc.DeleteSkill(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Skill deleted", http.StatusOK)
}

func (c *SkillController) GetTechnicianSkills(ctx echo.Context) error {
	userID, err := parseIDParam(ctx, "userId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	skills, err := c.svc.GetTechnicianSkills(ctx.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, skills, "Technician skills retrieved", http.StatusOK)
}

func (c *SkillController) UpsertTechnicianSkill(ctx echo.Context) error {
	var payload dto.UpsertTechnicianSkillDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.svc.UpsertTechnicianSkill(ctx.Request().Context(), payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Technician skill saved", http.StatusOK)
}

func (c *SkillController) DeleteTechnicianSkill(ctx echo.Context) error {
	userID, err := parseIDParam(ctx, "userId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	skillID, err := parseIDParam(ctx, "skillId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.svc.DeleteTechnicianSkill(ctx.Request().Context(), userID, skillID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Technician skill removed", http.StatusOK)
}
