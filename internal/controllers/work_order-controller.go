package controllers

import (
	"net/http"

	"lab-system/internal/authz"
	"lab-system/internal/dto"
	"lab-system/internal/services"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type WorkOrderController struct {
	svc     services.WorkOrderServiceInterface
	userSvc services.UserServiceInterface
	gate    *authz.Gatekeeper
	logger  *zap.Logger
}

func NewWorkOrderController(svc services.WorkOrderServiceInterface, userSvc services.UserServiceInterface, gate *authz.Gatekeeper, logger *zap.Logger) *WorkOrderController {
	return &WorkOrderController{svc: svc, userSvc: userSvc, gate: gate, logger: logger}
}

// authorize loads the actor and runs the scoped gate check against the
// target work order.
func (c *WorkOrderController) authorize(ctx echo.Context, permission string, workOrderID uint64) error {
	reqCtx := ctx.Request().Context()
	actorID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return err
	}
	perms, err := utils.GetPermissionsMapFromCtx(reqCtx)
	if err != nil {
		return err
	}
	actor, err := c.userSvc.FindUser(reqCtx, actorID)
	if err != nil {
		return err
	}
	target, err := c.svc.FindWorkOrder(reqCtx, workOrderID)
	if err != nil {
		return err
	}
	if !c.gate.Can(perms, actor, permission, target) {
		return apperrors.ErrForbidden
	}
	return nil
}

func (c *WorkOrderController) GetWorkOrders(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	orders, total, err := c.svc.GetWorkOrders(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, orders, "Work orders retrieved", http.StatusOK, total)
}

func (c *WorkOrderController) GetWorkOrder(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.authorize(ctx, authz.WorkOrdersView, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	order, err := c.svc.FindWorkOrder(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "Work order retrieved", http.StatusOK)
}

func (c *WorkOrderController) CreateWorkOrder(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateWorkOrderDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	order, err := c.svc.CreateWorkOrder(ctx.Request().Context(), actorID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "Work order created", http.StatusCreated)
}

func (c *WorkOrderController) UpdateWorkOrder(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.authorize(ctx, authz.WorkOrdersUpdate, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateWorkOrderDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	order, err := c.svc.UpdateWorkOrder(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "Work order updated", http.StatusOK)
}

func (c *WorkOrderController) AssignWorkOrder(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.authorize(ctx, authz.WorkOrdersAssign, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignWorkOrderDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	order, err := c.svc.AssignWorkOrder(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "Work order assigned", http.StatusOK)
}

func (c *WorkOrderController) DeleteWorkOrder(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.authorize(ctx, authz.WorkOrdersDelete, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.svc.DeleteWorkOrder(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Work order deleted", http.StatusOK)
}

// RecalculatePriorities is an operational endpoint, typically hit by a
// cron job.
func (c *WorkOrderController) RecalculatePriorities(ctx echo.Context) error {
	updated, err := c.svc.RecalculatePriorities(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int{"updated": updated}, "Priorities recalculated", http.StatusOK)
}
