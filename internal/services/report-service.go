package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"lab-system/internal/entities"
	"lab-system/internal/repositories"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	GetWorkOrderReport(ctx context.Context, filter entities.ReportFilter) ([]entities.WorkOrderReportItem, uint64, error)
	GetUtilizationReport(ctx context.Context, filter entities.ReportFilter) ([]entities.UtilizationReportItem, error)
	ExportWorkOrdersXLSX(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error)
	ExportWorkOrdersCSV(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error)
	ExportUtilizationXLSX(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error)
	ExportUtilizationCSV(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error)
}

type ReportService struct {
	repo   repositories.ReportRepositoryInterface
	logger *zap.Logger
}

func NewReportService(repo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{repo: repo, logger: logger}
}

func (s *ReportService) GetWorkOrderReport(ctx context.Context, filter entities.ReportFilter) ([]entities.WorkOrderReportItem, uint64, error) {
	return s.repo.GetWorkOrderReport(ctx, filter)
}

func (s *ReportService) GetUtilizationReport(ctx context.Context, filter entities.ReportFilter) ([]entities.UtilizationReportItem, error) {
	return s.repo.GetUtilizationReport(ctx, filter)
}

var workOrderReportHeader = []string{
	"Number", "Title", "Client", "Laboratory", "Status",
	"Priority", "Assignee", "Created", "SLA Due", "Completed", "SLA Outcome",
}

func workOrderReportRow(item entities.WorkOrderReportItem) []string {
	row := []string{
		item.Number,
		item.Title,
		item.ClientName.String,
		item.LabName.String,
		item.Status,
		strconv.Itoa(item.PriorityScore),
		item.AssigneeName.String,
		item.CreatedAt.Format(time.RFC3339),
		"",
		"",
		item.SLAOutcome,
	}
	if item.SLADueAt.Valid {
		row[8] = item.SLADueAt.Time.Format(time.RFC3339)
	}
	if item.CompletedAt.Valid {
		row[9] = item.CompletedAt.Time.Format(time.RFC3339)
	}
	return row
}

// exportFilter drops pagination so an export always covers the whole
// filtered set.
func exportFilter(filter entities.ReportFilter) entities.ReportFilter {
	filter.Page = 0
	filter.PerPage = 0
	return filter
}

func (s *ReportService) renderXLSX(sheet string, header []string, rows [][]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close xlsx builder", zap.Error(err))
		}
	}()

	f.SetSheetName("Sheet1", sheet)

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", lastCell, headerStyle)
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render xlsx: %w", err)
	}
	return buf, nil
}

func renderCSV(header []string, rows [][]string) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *ReportService) workOrderRows(ctx context.Context, filter entities.ReportFilter) ([][]string, error) {
	items, _, err := s.repo.GetWorkOrderReport(ctx, exportFilter(filter))
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, workOrderReportRow(item))
	}
	return rows, nil
}

func (s *ReportService) ExportWorkOrdersXLSX(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error) {
	rows, err := s.workOrderRows(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.renderXLSX("Work Orders", workOrderReportHeader, rows)
}

func (s *ReportService) ExportWorkOrdersCSV(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error) {
	rows, err := s.workOrderRows(ctx, filter)
	if err != nil {
		return nil, err
	}
	return renderCSV(workOrderReportHeader, rows)
}

var utilizationReportHeader = []string{
	"Equipment", "Reservations", "Reserved Hours", "Capacity Slot Hours",
}

func (s *ReportService) utilizationRows(ctx context.Context, filter entities.ReportFilter) ([][]string, error) {
	items, err := s.repo.GetUtilizationReport(ctx, exportFilter(filter))
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := []string{
			item.EquipmentName,
			strconv.Itoa(item.ReservationCount),
			strconv.FormatFloat(item.ReservedHours, 'f', 2, 64),
			"",
		}
		if item.CapacitySlotHrs.Valid {
			row[3] = strconv.FormatFloat(item.CapacitySlotHrs.Float64, 'f', 2, 64)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ReportService) ExportUtilizationXLSX(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error) {
	rows, err := s.utilizationRows(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.renderXLSX("Utilization", utilizationReportHeader, rows)
}

func (s *ReportService) ExportUtilizationCSV(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error) {
	rows, err := s.utilizationRows(ctx, filter)
	if err != nil {
		return nil, err
	}
	return renderCSV(utilizationReportHeader, rows)
}
