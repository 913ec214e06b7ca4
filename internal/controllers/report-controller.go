package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"lab-system/internal/entities"
	"lab-system/internal/services"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReportController struct {
	svc    services.ReportServiceInterface
	logger *zap.Logger
}

func NewReportController(svc services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{svc: svc, logger: logger}
}

func parseIDList(raw string) []uint64 {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseReportFilter(ctx echo.Context) (entities.ReportFilter, error) {
	var filter entities.ReportFilter

	if raw := ctx.QueryParam("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperrors.NewHttpError(http.StatusBadRequest, "date_from must be RFC 3339", err, nil)
		}
		filter.DateFrom = &t
	}
	if raw := ctx.QueryParam("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperrors.NewHttpError(http.StatusBadRequest, "date_to must be RFC 3339", err, nil)
		}
		filter.DateTo = &t
	}

	filter.LaboratoryIDs = parseIDList(ctx.QueryParam("laboratory_ids"))
	filter.ClientIDs = parseIDList(ctx.QueryParam("client_ids"))
	filter.AssigneeIDs = parseIDList(ctx.QueryParam("assignee_ids"))
	if raw := ctx.QueryParam("statuses"); raw != "" {
		filter.Statuses = strings.Split(raw, ",")
	}

	if page, err := strconv.Atoi(ctx.QueryParam("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(ctx.QueryParam("per_page")); err == nil && perPage > 0 {
		filter.PerPage = perPage
	}
	return filter, nil
}

// GetWorkOrderReport serves the report as JSON by default; format=xlsx
// and format=csv stream a file instead.
func (c *ReportController) GetWorkOrderReport(ctx echo.Context) error {
	filter, err := parseReportFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	switch ctx.QueryParam("format") {
	case "xlsx":
		buf, err := c.svc.ExportWorkOrdersXLSX(ctx.Request().Context(), filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		filename := "work_orders_" + time.Now().Format("2006-01-02") + ".xlsx"
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return ctx.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())

	case "csv":
		buf, err := c.svc.ExportWorkOrdersCSV(ctx.Request().Context(), filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		filename := "work_orders_" + time.Now().Format("2006-01-02") + ".csv"
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())

	default:
		items, total, err := c.svc.GetWorkOrderReport(ctx.Request().Context(), filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, items, "Work order report retrieved", http.StatusOK, total)
	}
}

func (c *ReportController) GetUtilizationReport(ctx echo.Context) error {
	filter, err := parseReportFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	switch ctx.QueryParam("format") {
	case "xlsx":
		buf, err := c.svc.ExportUtilizationXLSX(ctx.Request().Context(), filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		filename := "utilization_" + time.Now().Format("2006-01-02") + ".xlsx"
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return ctx.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())

	case "csv":
		buf, err := c.svc.ExportUtilizationCSV(ctx.Request().Context(), filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		filename := "utilization_" + time.Now().Format("2006-01-02") + ".csv"
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())

	default:
		items, err := c.svc.GetUtilizationReport(ctx.Request().Context(), filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, items, "Utilization report retrieved", http.StatusOK)
	}
}
