package repositories

import (
	"context"
	"errors"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var materialFilterColumns = map[string]string{
	"laboratory_id": "laboratory_id",
	"unit":          "unit",
	"name":          "name",
	"quantity":      "quantity",
	"created_at":    "created_at",
}

type MaterialRepositoryInterface interface {
	GetMaterials(ctx context.Context, filter types.Filter) ([]entities.Material, uint64, error)
	FindMaterial(ctx context.Context, id uint64) (*entities.Material, error)
	CreateMaterial(ctx context.Context, payload dto.CreateMaterialDTO) (uint64, error)
	UpdateMaterial(ctx context.Context, id uint64, payload dto.UpdateMaterialDTO) error
	DeleteMaterial(ctx context.Context, id uint64) error
	AdjustStock(ctx context.Context, tx pgx.Tx, materialID uint64, delta float64, reason string, actorID uint64) (float64, error)
	GetMovements(ctx context.Context, materialID uint64, filter types.Filter) ([]entities.MaterialMovement, uint64, error)
	GetLowStock(ctx context.Context, limit uint64) ([]entities.Material, error)
}

type MaterialRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaterialRepository(storage *pgxpool.Pool, logger *zap.Logger) MaterialRepositoryInterface {
	return &MaterialRepository{storage: storage, logger: logger}
}

func scanMaterial(row pgx.Row) (*entities.Material, error) {
	var m entities.Material
	err := row.Scan(&m.ID, &m.Name, &m.Unit, &m.Quantity, &m.MinQuantity,
		&m.LaboratoryID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) GetMaterials(ctx context.Context, filter types.Filter) ([]entities.Material, uint64, error) {
	countQuery, countArgs, err := countWithFilters("materials", filter, materialFilterColumns).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select("id, name, unit, quantity, min_quantity, laboratory_id, created_at, updated_at").
		From("materials")
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"name": "%" + filter.Search + "%"})
	}
	builder = applyListParams(builder, filter, materialFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("name ASC")
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

	var list []entities.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *m)
	}
	return list, total, rows.Err()
}

func (r *MaterialRepository) FindMaterial(ctx context.Context, id uint64) (*entities.Material, error) {
	query := `SELECT id, name, unit, quantity, min_quantity, laboratory_id, created_at, updated_at
		FROM materials WHERE id = $1`
	return scanMaterial(r.storage.QueryRow(ctx, query, id))
}

func (r *MaterialRepository) CreateMaterial(ctx context.Context, payload dto.CreateMaterialDTO) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO materials (name, unit, quantity, min_quantity, laboratory_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		payload.Name, payload.Unit, payload.Quantity, payload.MinQuantity, payload.LaboratoryID).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert material", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *MaterialRepository) UpdateMaterial(ctx context.Context, id uint64, payload dto.UpdateMaterialDTO) error {
	builder := psql.Update("materials").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})
	if payload.Name.Valid {
		builder = builder.Set("name", payload.Name.String)
	}
	if payload.Unit.Valid {
		builder = builder.Set("unit", payload.Unit.String)
	}
	if payload.MinQuantity.Valid {
		builder = builder.Set("min_quantity", payload.MinQuantity.Float64)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaterialRepository) DeleteMaterial(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdjustStock applies a delta and records the movement in one
// transaction. The quantity_not_negative check constraint rejects
// overdraws at the database level; here the row is locked first so the
// returned balance is accurate.
func (r *MaterialRepository) AdjustStock(ctx context.Context, tx pgx.Tx, materialID uint64, delta float64, reason string, actorID uint64) (float64, error) {
	var current float64
	err := tx.QueryRow(ctx,
		`SELECT quantity FROM materials WHERE id = $1 FOR UPDATE`, materialID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, err
	}

	newQuantity := current + delta
	if newQuantity < 0 {
		return current, apperrors.NewHttpError(409, "insufficient stock", nil, map[string]interface{}{
			"material_id": materialID,
			"quantity":    current,
			"delta":       delta,
		})
	}

	if _, err := tx.Exec(ctx,
		`UPDATE materials SET quantity = $1, updated_at = NOW() WHERE id = $2`,
		newQuantity, materialID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO material_movements (material_id, delta, reason, created_by)
		VALUES ($1, $2, $3, $4)`,
		materialID, delta, reason, actorID); err != nil {
		return 0, err
	}
	return newQuantity, nil
}

func (r *MaterialRepository) GetMovements(ctx context.Context, materialID uint64, filter types.Filter) ([]entities.MaterialMovement, uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM material_movements WHERE material_id = $1`, materialID).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select("id, material_id, delta, reason, created_by, created_at").
		From("material_movements").
		Where(sq.Eq{"material_id": materialID}).
		OrderBy("created_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
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

	var list []entities.MaterialMovement
	for rows.Next() {
		var mv entities.MaterialMovement
		if err := rows.Scan(&mv.ID, &mv.MaterialID, &mv.Delta, &mv.Reason, &mv.CreatedBy, &mv.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, mv)
	}
	return list, total, rows.Err()
}

func (r *MaterialRepository) GetLowStock(ctx context.Context, limit uint64) ([]entities.Material, error) {
	query := `SELECT id, name, unit, quantity, min_quantity, laboratory_id, created_at, updated_at
		FROM materials
		WHERE quantity < min_quantity
		ORDER BY quantity / NULLIF(min_quantity, 0) ASC NULLS FIRST
		LIMIT $1`
	rows, err := r.storage.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}
