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

type LaboratoryRepositoryInterface interface {
	GetLaboratories(ctx context.Context, filter types.Filter) ([]entities.Laboratory, uint64, error)
	FindLaboratory(ctx context.Context, id uint64) (*entities.Laboratory, error)
	CreateLaboratory(ctx context.Context, payload dto.CreateLaboratoryDTO) (uint64, error)
	UpdateLaboratory(ctx context.Context, id uint64, payload dto.UpdateLaboratoryDTO) error
	DeleteLaboratory(ctx context.Context, id uint64) error
}

type LaboratoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLaboratoryRepository(storage *pgxpool.Pool, logger *zap.Logger) LaboratoryRepositoryInterface {
	return &LaboratoryRepository{storage: storage, logger: logger}
}

var labFilterColumns = map[string]string{
	"name": "name",
	"site": "site",
}

func (r *LaboratoryRepository) GetLaboratories(ctx context.Context, filter types.Filter) ([]entities.Laboratory, uint64, error) {
	countQuery, countArgs, err := countWithFilters("laboratories", filter, labFilterColumns).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select("id, name, site, address, created_at, updated_at").From("laboratories")
	builder = applyListParams(builder, filter, labFilterColumns)
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

	var labs []entities.Laboratory
	for rows.Next() {
		var l entities.Laboratory
		if err := rows.Scan(&l.ID, &l.Name, &l.Site, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, err
		}
		labs = append(labs, l)
	}
	return labs, total, rows.Err()
}

func (r *LaboratoryRepository) FindLaboratory(ctx context.Context, id uint64) (*entities.Laboratory, error) {
	var l entities.Laboratory
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, site, address, created_at, updated_at FROM laboratories WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.Site, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *LaboratoryRepository) CreateLaboratory(ctx context.Context, payload dto.CreateLaboratoryDTO) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO laboratories (name, site, address) VALUES ($1, $2, $3) RETURNING id`,
		payload.Name, payload.Site, payload.Address).Scan(&id)
	return id, err
}

func (r *LaboratoryRepository) UpdateLaboratory(ctx context.Context, id uint64, payload dto.UpdateLaboratoryDTO) error {
	builder := psql.Update("laboratories").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})
	if payload.Name.Valid {
		builder = builder.Set("name", payload.Name.String)
	}
	if payload.Site.Valid {
		builder = builder.Set("site", payload.Site.String)
	}
	if payload.Address.Valid {
		builder = builder.Set("address", payload.Address.String)
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

func (r *LaboratoryRepository) DeleteLaboratory(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM laboratories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
