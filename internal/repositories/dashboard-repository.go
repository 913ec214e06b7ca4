package repositories

import (
	"context"
	"time"

	"lab-system/internal/dto"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type DashboardRepositoryInterface interface {
	CountWorkOrdersByStatus(ctx context.Context) (map[string]int, error)
	CountReservationsByStatus(ctx context.Context) (map[string]int, error)
	GetUpcomingReservations(ctx context.Context, from time.Time, limit uint64) ([]dto.UpcomingReservation, error)
	GetEquipmentLoad(ctx context.Context, from, to time.Time, limit uint64) ([]dto.EquipmentLoad, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func (r *DashboardRepository) CountWorkOrdersByStatus(ctx context.Context) (map[string]int, error) {
	return r.countByStatus(ctx,
		`SELECT status, COUNT(*) FROM work_orders WHERE deleted_at IS NULL GROUP BY status`)
}

func (r *DashboardRepository) CountReservationsByStatus(ctx context.Context) (map[string]int, error) {
	return r.countByStatus(ctx,
		`SELECT status, COUNT(*) FROM reservations GROUP BY status`)
}

func (r *DashboardRepository) countByStatus(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *DashboardRepository) GetUpcomingReservations(ctx context.Context, from time.Time, limit uint64) ([]dto.UpcomingReservation, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT r.id, e.name, r.starts_at, r.ends_at
		FROM reservations r
		JOIN equipments e ON e.id = r.equipment_id
		WHERE r.status = 'scheduled' AND r.starts_at >= $1
		ORDER BY r.starts_at ASC
		LIMIT $2`, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []dto.UpcomingReservation
	for rows.Next() {
		var item dto.UpcomingReservation
		var starts, ends time.Time
		if err := rows.Scan(&item.ReservationID, &item.EquipmentName, &starts, &ends); err != nil {
			return nil, err
		}
		item.StartsAt = starts.Format(time.RFC3339)
		item.EndsAt = ends.Format(time.RFC3339)
		list = append(list, item)
	}
	return list, rows.Err()
}

// GetEquipmentLoad sums reserved hours per equipment over a window,
// clipping reservations to the window edges.
func (r *DashboardRepository) GetEquipmentLoad(ctx context.Context, from, to time.Time, limit uint64) ([]dto.EquipmentLoad, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT e.id, e.name,
		       COALESCE(SUM(EXTRACT(EPOCH FROM (LEAST(r.ends_at, $2) - GREATEST(r.starts_at, $1))) / 3600), 0)
		FROM equipments e
		JOIN reservations r ON r.equipment_id = e.id
		WHERE r.status IN ('scheduled', 'in_progress')
		  AND r.starts_at < $2 AND r.ends_at > $1
		  AND e.deleted_at IS NULL
		GROUP BY e.id, e.name
		ORDER BY 3 DESC
		LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []dto.EquipmentLoad
	for rows.Next() {
		var item dto.EquipmentLoad
		if err := rows.Scan(&item.EquipmentID, &item.EquipmentName, &item.ReservedHours); err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
