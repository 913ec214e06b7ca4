package controllers

import (
	"net/http"
	"strconv"

	apperrors "lab-system/pkg/errors"

	"github.com/labstack/echo/v4"
)

func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil)
	}
	return ctx.Validate(payload)
}

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "invalid "+name+" parameter", err, nil)
	}
	return id, nil
}
