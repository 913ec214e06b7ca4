package repositories

import (
	"context"
	"errors"
	"time"

	"lab-system/internal/entities"
	"lab-system/internal/scheduling"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const reservationFields = "id, equipment_id, work_order_id, technician_id, starts_at, ends_at, status, capacity_consumed, notes, created_by, created_at, updated_at"

var reservationFilterColumns = map[string]string{
	"equipment_id":  "equipment_id",
	"work_order_id": "work_order_id",
	"technician_id": "technician_id",
	"status":        "status",
	"starts_at":     "starts_at",
	"ends_at":       "ends_at",
	"created_by":    "created_by",
}

type ReservationRepositoryInterface interface {
	GetReservations(ctx context.Context, filter types.Filter) ([]entities.Reservation, uint64, error)
	FindReservation(ctx context.Context, id uint64) (*entities.Reservation, error)
	CreateReservation(ctx context.Context, tx pgx.Tx, reservation entities.Reservation) (uint64, error)
	UpdateStatus(ctx context.Context, id uint64, status scheduling.ReservationStatus) error
	UpdateInterval(ctx context.Context, tx pgx.Tx, id uint64, starts, ends time.Time) error
	ActiveOverlapping(ctx context.Context, resourceID uint64, iv scheduling.Interval, excludeID *uint64) ([]scheduling.Reservation, error)
	TxStore(tx pgx.Tx) scheduling.IntervalStore
	CountActiveByTechnician(ctx context.Context, technicianIDs []uint64, from time.Time) (map[uint64]int, error)
}

type ReservationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReservationRepository(storage *pgxpool.Pool, logger *zap.Logger) ReservationRepositoryInterface {
	return &ReservationRepository{storage: storage, logger: logger}
}

func scanReservation(row pgx.Row) (*entities.Reservation, error) {
	var res entities.Reservation
	var status string
	err := row.Scan(&res.ID, &res.EquipmentID, &res.WorkOrderID, &res.TechnicianID,
		&res.StartsAt, &res.EndsAt, &status, &res.CapacityConsumed,
		&res.Notes, &res.CreatedBy, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	parsed, err := scheduling.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	res.Status = parsed
	return &res, nil
}

func (r *ReservationRepository) GetReservations(ctx context.Context, filter types.Filter) ([]entities.Reservation, uint64, error) {
	countQuery, countArgs, err := countWithFilters("reservations", filter, reservationFilterColumns).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select(reservationFields).From("reservations")
	builder = applyListParams(builder, filter, reservationFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("starts_at ASC")
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

	var list []entities.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *res)
	}
	return list, total, rows.Err()
}

func (r *ReservationRepository) FindReservation(ctx context.Context, id uint64) (*entities.Reservation, error) {
	query := `SELECT ` + reservationFields + ` FROM reservations WHERE id = $1`
	return scanReservation(r.storage.QueryRow(ctx, query, id))
}

// CreateReservation inserts inside the admission transaction so the
// overlap check and the insert commit or fail together.
func (r *ReservationRepository) CreateReservation(ctx context.Context, tx pgx.Tx, reservation entities.Reservation) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx, `
		INSERT INTO reservations (equipment_id, work_order_id, technician_id, starts_at, ends_at, status, capacity_consumed, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		reservation.EquipmentID, reservation.WorkOrderID, reservation.TechnicianID,
		reservation.StartsAt, reservation.EndsAt, string(reservation.Status),
		reservation.CapacityConsumed, reservation.Notes, reservation.CreatedBy).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert reservation", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uint64, status scheduling.ReservationStatus) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ReservationRepository) UpdateInterval(ctx context.Context, tx pgx.Tx, id uint64, starts, ends time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE reservations SET starts_at = $1, ends_at = $2, updated_at = NOW() WHERE id = $3`,
		starts, ends, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// activeOverlappingQuery matches the half-open interval rule: rows
// conflict when starts_at < end AND ends_at > start.
func activeOverlapping(ctx context.Context, q querier, resourceID uint64, iv scheduling.Interval, excludeID *uint64) ([]scheduling.Reservation, error) {
	builder := psql.Select("id, equipment_id, starts_at, ends_at, status, capacity_consumed").
		From("reservations").
		Where(sq.Eq{"equipment_id": resourceID}).
		Where(sq.Eq{"status": []string{
			string(scheduling.StatusScheduled),
			string(scheduling.StatusInProgress),
		}}).
		Where(sq.Lt{"starts_at": iv.End}).
		Where(sq.Gt{"ends_at": iv.Start})
	if excludeID != nil {
		builder = builder.Where(sq.NotEq{"id": *excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scheduling.Reservation
	for rows.Next() {
		var res scheduling.Reservation
		var status string
		if err := rows.Scan(&res.ID, &res.ResourceID, &res.Interval.Start, &res.Interval.End, &status, &res.CapacityConsumed); err != nil {
			return nil, err
		}
		parsed, err := scheduling.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		res.Status = parsed
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ReservationRepository) ActiveOverlapping(ctx context.Context, resourceID uint64, iv scheduling.Interval, excludeID *uint64) ([]scheduling.Reservation, error) {
	return activeOverlapping(ctx, r.storage, resourceID, iv, excludeID)
}

// TxStore returns an interval store bound to the transaction, so the
// admission checker reads uncommitted state of the same tx.
func (r *ReservationRepository) TxStore(tx pgx.Tx) scheduling.IntervalStore {
	return &txIntervalStore{tx: tx}
}

type txIntervalStore struct {
	tx pgx.Tx
}

func (s *txIntervalStore) ActiveOverlapping(ctx context.Context, resourceID uint64, iv scheduling.Interval, excludeID *uint64) ([]scheduling.Reservation, error) {
	return activeOverlapping(ctx, s.tx, resourceID, iv, excludeID)
}

// CountActiveByTechnician returns, per technician, the number of active
// reservations ending after the given moment. The matcher uses it as
// the workload signal.
func (r *ReservationRepository) CountActiveByTechnician(ctx context.Context, technicianIDs []uint64, from time.Time) (map[uint64]int, error) {
	counts := make(map[uint64]int, len(technicianIDs))
	for _, id := range technicianIDs {
		counts[id] = 0
	}
	if len(technicianIDs) == 0 {
		return counts, nil
	}

	query, args, err := psql.Select("technician_id, COUNT(*)").
		From("reservations").
		Where(sq.Eq{"technician_id": technicianIDs}).
		Where(sq.Eq{"status": []string{
			string(scheduling.StatusScheduled),
			string(scheduling.StatusInProgress),
		}}).
		Where(sq.Gt{"ends_at": from}).
		GroupBy("technician_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uint64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
