package controllers

import (
	"net/http"

	"lab-system/internal/dto"
	"lab-system/internal/services"
	"lab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReservationController struct {
	svc    services.ReservationServiceInterface
	logger *zap.Logger
}

func NewReservationController(svc services.ReservationServiceInterface, logger *zap.Logger) *ReservationController {
	return &ReservationController{svc: svc, logger: logger}
}

func (c *ReservationController) GetReservations(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	reservations, total, err := c.svc.GetReservations(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, reservations, "Reservations retrieved", http.StatusOK, total)
}

func (c *ReservationController) GetReservation(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	reservation, err := c.svc.FindReservation(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, reservation, "Reservation retrieved", http.StatusOK)
}

func (c *ReservationController) CreateReservation(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateReservationDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reservation, err := c.svc.CreateReservation(ctx.Request().Context(), actorID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, reservation, "Reservation created", http.StatusCreated)
}

func (c *ReservationController) TransitionReservation(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.TransitionReservationDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	reservation, err := c.svc.TransitionReservation(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, reservation, "Reservation status updated", http.StatusOK)
}

func (c *ReservationController) RescheduleReservation(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.RescheduleReservationDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	reservation, err := c.svc.RescheduleReservation(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, reservation, "Reservation rescheduled", http.StatusOK)
}
