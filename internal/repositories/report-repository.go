package repositories

import (
	"context"

	"lab-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReportRepositoryInterface interface {
	GetWorkOrderReport(ctx context.Context, filter entities.ReportFilter) ([]entities.WorkOrderReportItem, uint64, error)
	GetUtilizationReport(ctx context.Context, filter entities.ReportFilter) ([]entities.UtilizationReportItem, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &ReportRepository{storage: storage, logger: logger}
}

func workOrderReportWhere(filter entities.ReportFilter) []sq.Sqlizer {
	conds := []sq.Sqlizer{sq.Eq{"wo.deleted_at": nil}}
	if filter.DateFrom != nil {
		conds = append(conds, sq.GtOrEq{"wo.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		conds = append(conds, sq.Lt{"wo.created_at": *filter.DateTo})
	}
	if len(filter.LaboratoryIDs) > 0 {
		conds = append(conds, sq.Eq{"wo.laboratory_id": filter.LaboratoryIDs})
	}
	if len(filter.ClientIDs) > 0 {
		conds = append(conds, sq.Eq{"wo.client_id": filter.ClientIDs})
	}
	if len(filter.AssigneeIDs) > 0 {
		conds = append(conds, sq.Eq{"wo.assignee_id": filter.AssigneeIDs})
	}
	if len(filter.Statuses) > 0 {
		conds = append(conds, sq.Eq{"wo.status": filter.Statuses})
	}
	return conds
}

func (r *ReportRepository) GetWorkOrderReport(ctx context.Context, filter entities.ReportFilter) ([]entities.WorkOrderReportItem, uint64, error) {
	conds := workOrderReportWhere(filter)

	countBuilder := psql.Select("COUNT(*)").From("work_orders wo")
	for _, c := range conds {
		countBuilder = countBuilder.Where(c)
	}
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select(
		"wo.id", "wo.number", "wo.title", "c.name", "l.name",
		"wo.status", "wo.priority_score", "u.full_name",
		"wo.created_at", "wo.sla_due_at", "wo.completed_at",
		`CASE
			WHEN wo.sla_due_at IS NULL THEN 'no_sla'
			WHEN wo.completed_at IS NOT NULL AND wo.completed_at <= wo.sla_due_at THEN 'met'
			WHEN wo.completed_at IS NOT NULL THEN 'missed'
			WHEN NOW() > wo.sla_due_at THEN 'overdue'
			ELSE 'pending'
		END`).
		From("work_orders wo").
		LeftJoin("clients c ON c.id = wo.client_id").
		LeftJoin("laboratories l ON l.id = wo.laboratory_id").
		LeftJoin("users u ON u.id = wo.assignee_id")
	for _, c := range conds {
		builder = builder.Where(c)
	}
	builder = builder.OrderBy("wo.priority_score DESC, wo.created_at ASC")
	if filter.PerPage > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		builder = builder.Limit(uint64(filter.PerPage)).Offset(uint64((page - 1) * filter.PerPage))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []entities.WorkOrderReportItem
	for rows.Next() {
		var item entities.WorkOrderReportItem
		if err := rows.Scan(&item.WorkOrderID, &item.Number, &item.Title,
			&item.ClientName, &item.LabName, &item.Status, &item.PriorityScore,
			&item.AssigneeName, &item.CreatedAt, &item.SLADueAt, &item.CompletedAt,
			&item.SLAOutcome); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// GetUtilizationReport clips each reservation to the report window
// before summing hours, so long-running bookings do not inflate a
// narrow window.
func (r *ReportRepository) GetUtilizationReport(ctx context.Context, filter entities.ReportFilter) ([]entities.UtilizationReportItem, error) {
	query := `
		SELECT e.id, e.name, COUNT(r.id),
		       COALESCE(SUM(EXTRACT(EPOCH FROM (
		           LEAST(r.ends_at, COALESCE($1::timestamptz, r.ends_at)) -
		           GREATEST(r.starts_at, COALESCE($2::timestamptz, r.starts_at))
		       )) / 3600), 0),
		       e.capacity * 1.0
		FROM equipments e
		LEFT JOIN reservations r ON r.equipment_id = e.id
		    AND r.status IN ('scheduled', 'in_progress', 'completed')
		    AND ($1::timestamptz IS NULL OR r.starts_at < $1)
		    AND ($2::timestamptz IS NULL OR r.ends_at > $2)
		WHERE e.deleted_at IS NULL
		  AND ($3::bigint[] IS NULL OR e.laboratory_id = ANY($3))
		GROUP BY e.id, e.name, e.capacity
		ORDER BY 4 DESC`

	var dateTo, dateFrom interface{}
	if filter.DateTo != nil {
		dateTo = *filter.DateTo
	}
	if filter.DateFrom != nil {
		dateFrom = *filter.DateFrom
	}
	var labIDs interface{}
	if len(filter.LaboratoryIDs) > 0 {
		labIDs = filter.LaboratoryIDs
	}

	rows, err := r.storage.Query(ctx, query, dateTo, dateFrom, labIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entities.UtilizationReportItem
	for rows.Next() {
		var item entities.UtilizationReportItem
		if err := rows.Scan(&item.EquipmentID, &item.EquipmentName,
			&item.ReservationCount, &item.ReservedHours, &item.CapacitySlotHrs); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
