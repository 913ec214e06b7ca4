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

type RoleRepositoryInterface interface {
	GetRoles(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error)
	FindRole(ctx context.Context, id uint64) (*entities.Role, error)
	CreateRole(ctx context.Context, payload dto.CreateRoleDTO) (uint64, error)
	UpdateRole(ctx context.Context, id uint64, payload dto.UpdateRoleDTO) error
	DeleteRole(ctx context.Context, id uint64) error
}

type PermissionRepositoryInterface interface {
	GetPermissions(ctx context.Context) ([]entities.Permission, error)
	GetPermissionCodesForRole(ctx context.Context, roleID uint64) ([]string, error)
	SetRolePermissions(ctx context.Context, tx pgx.Tx, roleID uint64, permissionIDs []uint64) error
}

type RoleRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRoleRepository(storage *pgxpool.Pool, logger *zap.Logger) RoleRepositoryInterface {
	return &RoleRepository{storage: storage, logger: logger}
}

var roleFilterColumns = map[string]string{
	"name":       "name",
	"code":       "code",
	"created_at": "created_at",
}

func (r *RoleRepository) GetRoles(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error) {
	countQuery, countArgs, err := countWithFilters("roles", filter, roleFilterColumns).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select("id, name, code, description, created_at, updated_at").From("roles")
	builder = applyListParams(builder, filter, roleFilterColumns)
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

	var roles []entities.Role
	for rows.Next() {
		var role entities.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Code, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, 0, err
		}
		roles = append(roles, role)
	}
	return roles, total, rows.Err()
}

func (r *RoleRepository) FindRole(ctx context.Context, id uint64) (*entities.Role, error) {
	var role entities.Role
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, code, description, created_at, updated_at FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.Code, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) CreateRole(ctx context.Context, payload dto.CreateRoleDTO) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO roles (name, code, description) VALUES ($1, $2, $3) RETURNING id`,
		payload.Name, payload.Code, payload.Description).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert role", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *RoleRepository) UpdateRole(ctx context.Context, id uint64, payload dto.UpdateRoleDTO) error {
	builder := psql.Update("roles").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})
	if payload.Name.Valid {
		builder = builder.Set("name", payload.Name.String)
	}
	if payload.Description.Valid {
		builder = builder.Set("description", payload.Description.String)
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

func (r *RoleRepository) DeleteRole(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type PermissionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPermissionRepository(storage *pgxpool.Pool, logger *zap.Logger) PermissionRepositoryInterface {
	return &PermissionRepository{storage: storage, logger: logger}
}

func (r *PermissionRepository) GetPermissions(ctx context.Context) ([]entities.Permission, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name, code, description FROM permissions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []entities.Permission
	for rows.Next() {
		var p entities.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Description); err != nil {
			return nil, err
		}
		permissions = append(permissions, p)
	}
	return permissions, rows.Err()
}

func (r *PermissionRepository) GetPermissionCodesForRole(ctx context.Context, roleID uint64) ([]string, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT p.code
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = $1`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// SetRolePermissions replaces the role's permission set inside the given
// transaction.
func (r *PermissionRepository) SetRolePermissions(ctx context.Context, tx pgx.Tx, roleID uint64, permissionIDs []uint64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return err
	}
	for _, pid := range permissionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`, roleID, pid); err != nil {
			return err
		}
	}
	return nil
}
