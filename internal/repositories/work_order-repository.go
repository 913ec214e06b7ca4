package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lab-system/internal/entities"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const workOrderFields = "id, number, title, description, client_id, laboratory_id, status, source_category, sla_due_at, priority_score, assignee_id, created_by, completed_at, created_at, updated_at"

var workOrderFilterColumns = map[string]string{
	"status":          "status",
	"client_id":       "client_id",
	"laboratory_id":   "laboratory_id",
	"assignee_id":     "assignee_id",
	"source_category": "source_category",
	"created_by":      "created_by",
	"priority_score":  "priority_score",
	"sla_due_at":      "sla_due_at",
	"created_at":      "created_at",
}

type WorkOrderRepositoryInterface interface {
	GetWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error)
	FindWorkOrder(ctx context.Context, id uint64) (*entities.WorkOrder, error)
	CreateWorkOrder(ctx context.Context, order entities.WorkOrder) (uint64, error)
	UpdateWorkOrder(ctx context.Context, order entities.WorkOrder) error
	SetAssignee(ctx context.Context, id, assigneeID uint64) error
	SoftDeleteWorkOrder(ctx context.Context, id uint64) error
	NextNumber(ctx context.Context) (string, error)
	GetOpenOrders(ctx context.Context) ([]entities.WorkOrder, error)
	UpdatePriorityScores(ctx context.Context, scores map[uint64]int) error
}

type WorkOrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkOrderRepositoryInterface {
	return &WorkOrderRepository{storage: storage, logger: logger}
}

func scanWorkOrder(row pgx.Row) (*entities.WorkOrder, error) {
	var wo entities.WorkOrder
	err := row.Scan(&wo.ID, &wo.Number, &wo.Title, &wo.Description,
		&wo.ClientID, &wo.LaboratoryID, &wo.Status, &wo.SourceCategory,
		&wo.SLADueAt, &wo.PriorityScore, &wo.AssigneeID, &wo.CreatedBy,
		&wo.CompletedAt, &wo.CreatedAt, &wo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderRepository) GetWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error) {
	notDeleted := sq.Eq{"deleted_at": nil}

	countQuery, countArgs, err := countWithFilters("work_orders", filter, workOrderFilterColumns, notDeleted).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select(workOrderFields).From("work_orders").Where(notDeleted)
	if filter.Search != "" {
		builder = builder.Where(sq.Or{
			sq.ILike{"title": "%" + filter.Search + "%"},
			sq.ILike{"number": "%" + filter.Search + "%"},
		})
	}
	builder = applyListParams(builder, filter, workOrderFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("priority_score DESC, created_at ASC")
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

	var list []entities.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *wo)
	}
	return list, total, rows.Err()
}

func (r *WorkOrderRepository) FindWorkOrder(ctx context.Context, id uint64) (*entities.WorkOrder, error) {
	query := `SELECT ` + workOrderFields + ` FROM work_orders WHERE id = $1 AND deleted_at IS NULL`
	return scanWorkOrder(r.storage.QueryRow(ctx, query, id))
}

func (r *WorkOrderRepository) CreateWorkOrder(ctx context.Context, order entities.WorkOrder) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO work_orders (number, title, description, client_id, laboratory_id, status, source_category, sla_due_at, priority_score, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		order.Number, order.Title, order.Description, order.ClientID, order.LaboratoryID,
		string(order.Status), order.SourceCategory, order.SLADueAt, order.PriorityScore,
		order.CreatedBy).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert work order", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *WorkOrderRepository) UpdateWorkOrder(ctx context.Context, order entities.WorkOrder) error {
	tag, err := r.storage.Exec(ctx, `
		UPDATE work_orders
		SET title = $1, description = $2, client_id = $3, laboratory_id = $4,
		    status = $5, source_category = $6, sla_due_at = $7,
		    priority_score = $8, completed_at = $9, updated_at = NOW()
		WHERE id = $10 AND deleted_at IS NULL`,
		order.Title, order.Description, order.ClientID, order.LaboratoryID,
		string(order.Status), order.SourceCategory, order.SLADueAt,
		order.PriorityScore, order.CompletedAt, order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *WorkOrderRepository) SetAssignee(ctx context.Context, id, assigneeID uint64) error {
	tag, err := r.storage.Exec(ctx, `
		UPDATE work_orders
		SET assignee_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL`,
		assigneeID, string(entities.WorkOrderInProgress), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *WorkOrderRepository) SoftDeleteWorkOrder(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE work_orders SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// NextNumber draws from a dedicated sequence so numbers stay unique
// under concurrent creates.
func (r *WorkOrderRepository) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.storage.QueryRow(ctx, `SELECT nextval('work_order_number_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("WO-%d-%06d", time.Now().UTC().Year(), n), nil
}

// GetOpenOrders returns non-terminal orders for the periodic priority
// recalculation.
func (r *WorkOrderRepository) GetOpenOrders(ctx context.Context) ([]entities.WorkOrder, error) {
	query := `SELECT ` + workOrderFields + ` FROM work_orders
		WHERE status IN ('open', 'in_progress', 'on_hold') AND deleted_at IS NULL`
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *wo)
	}
	return list, rows.Err()
}

func (r *WorkOrderRepository) UpdatePriorityScores(ctx context.Context, scores map[uint64]int) error {
	for id, score := range scores {
		if _, err := r.storage.Exec(ctx,
			`UPDATE work_orders SET priority_score = $1, updated_at = NOW() WHERE id = $2`,
			score, id); err != nil {
			return err
		}
	}
	return nil
}
