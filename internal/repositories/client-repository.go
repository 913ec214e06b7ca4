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

type ClientRepositoryInterface interface {
	GetClients(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error)
	FindClient(ctx context.Context, id uint64) (*entities.Client, error)
	CreateClient(ctx context.Context, payload dto.CreateClientDTO) (uint64, error)
	UpdateClient(ctx context.Context, id uint64, payload dto.UpdateClientDTO) error
	DeleteClient(ctx context.Context, id uint64) error
}

type ClientRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewClientRepository(storage *pgxpool.Pool, logger *zap.Logger) ClientRepositoryInterface {
	return &ClientRepository{storage: storage, logger: logger}
}

var clientFilterColumns = map[string]string{
	"name":           "name",
	"priority_level": "priority_level",
	"created_at":     "created_at",
}

func (r *ClientRepository) GetClients(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error) {
	countQuery, countArgs, err := countWithFilters("clients", filter, clientFilterColumns).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select("id, name, contact_email, contact_phone, priority_level, created_at, updated_at").
		From("clients")
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"name": "%" + filter.Search + "%"})
	}
	builder = applyListParams(builder, filter, clientFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("id DESC")
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

	var clients []entities.Client
	for rows.Next() {
		var c entities.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactEmail, &c.ContactPhone, &c.PriorityLevel, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		clients = append(clients, c)
	}
	return clients, total, rows.Err()
}

func (r *ClientRepository) FindClient(ctx context.Context, id uint64) (*entities.Client, error) {
	var c entities.Client
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, contact_email, contact_phone, priority_level, created_at, updated_at FROM clients WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.ContactEmail, &c.ContactPhone, &c.PriorityLevel, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) CreateClient(ctx context.Context, payload dto.CreateClientDTO) (uint64, error) {
	priority := payload.PriorityLevel
	if priority == "" {
		priority = "normal"
	}
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO clients (name, contact_email, contact_phone, priority_level) VALUES ($1, $2, $3, $4) RETURNING id`,
		payload.Name, payload.ContactEmail, payload.ContactPhone, priority).Scan(&id)
	return id, err
}

func (r *ClientRepository) UpdateClient(ctx context.Context, id uint64, payload dto.UpdateClientDTO) error {
	builder := psql.Update("clients").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})
	if payload.Name.Valid {
		builder = builder.Set("name", payload.Name.String)
	}
	if payload.ContactEmail.Valid {
		builder = builder.Set("contact_email", payload.ContactEmail.String)
	}
	if payload.ContactPhone.Valid {
		builder = builder.Set("contact_phone", payload.ContactPhone.String)
	}
	if payload.PriorityLevel.Valid {
		builder = builder.Set("priority_level", payload.PriorityLevel.String)
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

func (r *ClientRepository) DeleteClient(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
