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

const userFields = "id, full_name, email, password_hash, position, role_id, laboratory_id, is_active, created_at, updated_at"

var userFilterColumns = map[string]string{
	"role_id":       "role_id",
	"laboratory_id": "laboratory_id",
	"is_active":     "is_active",
	"created_at":    "created_at",
	"full_name":     "full_name",
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user entities.User) (uint64, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) error
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
	SoftDeleteUser(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Position,
		&u.RoleID, &u.LaboratoryID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	notDeleted := sq.Eq{"deleted_at": nil}

	countQuery, countArgs, err := countWithFilters("users", filter, userFilterColumns, notDeleted).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select(userFields).From("users").Where(notDeleted)
	builder = applyListParams(builder, filter, userFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("id DESC")
	}
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"full_name": "%" + filter.Search + "%"})
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

	var users []entities.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := `SELECT ` + userFields + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `SELECT ` + userFields + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) (uint64, error) {
	query := `
		INSERT INTO users (full_name, email, password_hash, position, role_id, laboratory_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		user.FullName, user.Email, user.PasswordHash, user.Position,
		user.RoleID, user.LaboratoryID, user.IsActive).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert user", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) error {
	builder := psql.Update("users").Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).Where(sq.Eq{"deleted_at": nil})

	if payload.FullName.Valid {
		builder = builder.Set("full_name", payload.FullName.String)
	}
	if payload.Email.Valid {
		builder = builder.Set("email", payload.Email.String)
	}
	if payload.Position.Valid {
		builder = builder.Set("position", payload.Position.String)
	}
	if payload.RoleID.Valid {
		builder = builder.Set("role_id", payload.RoleID.Uint64)
	}
	if payload.LaboratoryID.Valid {
		builder = builder.Set("laboratory_id", payload.LaboratoryID.Uint64)
	}
	if payload.IsActive.Valid {
		builder = builder.Set("is_active", payload.IsActive.Bool)
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

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SoftDeleteUser(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
