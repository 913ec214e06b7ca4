package repositories

import (
	"context"
	"errors"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/matching"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const equipmentFields = "id, name, serial_number, laboratory_id, exclusive, concurrency_limit, capacity, created_at, updated_at"

var equipmentFilterColumns = map[string]string{
	"laboratory_id": "laboratory_id",
	"exclusive":     "exclusive",
	"name":          "name",
	"created_at":    "created_at",
}

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindEquipmentTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (uint64, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) error
	SoftDeleteEquipment(ctx context.Context, id uint64) error
	GetSkillRequirements(ctx context.Context, equipmentID uint64) ([]entities.EquipmentSkillRequirement, error)
	SetSkillRequirements(ctx context.Context, tx pgx.Tx, equipmentID uint64, reqs []entities.EquipmentSkillRequirement) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(&e.ID, &e.Name, &e.SerialNumber, &e.LaboratoryID,
		&e.Exclusive, &e.ConcurrencyLimit, &e.Capacity, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	notDeleted := sq.Eq{"deleted_at": nil}

	countQuery, countArgs, err := countWithFilters("equipments", filter, equipmentFilterColumns, notDeleted).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select(equipmentFields).From("equipments").Where(notDeleted)
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"name": "%" + filter.Search + "%"})
	}
	builder = applyListParams(builder, filter, equipmentFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("id ASC")
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

	var list []entities.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *e)
	}
	return list, total, rows.Err()
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := `SELECT ` + equipmentFields + ` FROM equipments WHERE id = $1 AND deleted_at IS NULL`
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

// FindEquipmentTx reads the equipment row inside a transaction so an
// admission check sees the same snapshot as its insert.
func (r *EquipmentRepository) FindEquipmentTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query := `SELECT ` + equipmentFields + ` FROM equipments WHERE id = $1 AND deleted_at IS NULL`
	return scanEquipment(tx.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO equipments (name, serial_number, laboratory_id, exclusive, concurrency_limit, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		payload.Name, payload.SerialNumber, payload.LaboratoryID,
		payload.Exclusive, payload.ConcurrencyLimit, payload.Capacity).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert equipment", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) error {
	builder := psql.Update("equipments").Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).Where(sq.Eq{"deleted_at": nil})

	if payload.Name.Valid {
		builder = builder.Set("name", payload.Name.String)
	}
	if payload.SerialNumber.Valid {
		builder = builder.Set("serial_number", payload.SerialNumber.String)
	}
	if payload.LaboratoryID.Valid {
		builder = builder.Set("laboratory_id", payload.LaboratoryID.Uint64)
	}
	if payload.Exclusive.Valid {
		builder = builder.Set("exclusive", payload.Exclusive.Bool)
	}
	if payload.ConcurrencyLimit.Valid {
		builder = builder.Set("concurrency_limit", payload.ConcurrencyLimit.Int)
	}
	if payload.Capacity.Valid {
		builder = builder.Set("capacity", payload.Capacity.Int)
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

func (r *EquipmentRepository) SoftDeleteEquipment(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE equipments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) GetSkillRequirements(ctx context.Context, equipmentID uint64) ([]entities.EquipmentSkillRequirement, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT equipment_id, skill_id, minimum_proficiency, certification_required
		FROM equipment_skill_requirements
		WHERE equipment_id = $1
		ORDER BY skill_id`, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []entities.EquipmentSkillRequirement
	for rows.Next() {
		var req entities.EquipmentSkillRequirement
		var proficiency string
		if err := rows.Scan(&req.EquipmentID, &req.SkillID, &proficiency, &req.CertificationRequired); err != nil {
			return nil, err
		}
		p, ok := matching.ParseProficiency(proficiency)
		if !ok {
			return nil, errors.New("corrupt minimum_proficiency value: " + proficiency)
		}
		req.MinimumProficiency = p
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// SetSkillRequirements replaces the requirement set of a piece of
// equipment inside the given transaction.
func (r *EquipmentRepository) SetSkillRequirements(ctx context.Context, tx pgx.Tx, equipmentID uint64, reqs []entities.EquipmentSkillRequirement) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM equipment_skill_requirements WHERE equipment_id = $1`, equipmentID); err != nil {
		return err
	}
	for _, req := range reqs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO equipment_skill_requirements (equipment_id, skill_id, minimum_proficiency, certification_required)
			VALUES ($1, $2, $3, $4)`,
			equipmentID, req.SkillID, req.MinimumProficiency.String(), req.CertificationRequired); err != nil {
			return err
		}
	}
	return nil
}
