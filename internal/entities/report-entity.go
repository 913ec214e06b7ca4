package entities

import (
	"database/sql"
	"time"
)

type ReportFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	LaboratoryIDs []uint64
	ClientIDs     []uint64
	AssigneeIDs   []uint64
	Statuses      []string
	Page          int
	PerPage       int
}

// WorkOrderReportItem is one row of the work-order report.
type WorkOrderReportItem struct {
	WorkOrderID   uint64
	Number        string
	Title         string
	ClientName    sql.NullString
	LabName       sql.NullString
	Status        string
	PriorityScore int
	AssigneeName  sql.NullString
	CreatedAt     time.Time
	SLADueAt      sql.NullTime
	CompletedAt   sql.NullTime
	SLAOutcome    string
}

// UtilizationReportItem is one row of the equipment-utilization report:
// reserved hours per equipment over the filter window.
type UtilizationReportItem struct {
	EquipmentID      uint64
	EquipmentName    string
	ReservationCount int
	ReservedHours    float64
	CapacitySlotHrs  sql.NullFloat64
}
