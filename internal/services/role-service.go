package services

import (
	"context"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/repositories"
	"lab-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoleServiceInterface interface {
	GetRoles(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error)
	FindRole(ctx context.Context, id uint64) (*entities.Role, error)
	CreateRole(ctx context.Context, payload dto.CreateRoleDTO) (*entities.Role, error)
	UpdateRole(ctx context.Context, id uint64, payload dto.UpdateRoleDTO) error
	DeleteRole(ctx context.Context, id uint64) error
	SetRolePermissions(ctx context.Context, roleID uint64, payload dto.SetRolePermissionsDTO) error
}

type RoleService struct {
	roleRepo repositories.RoleRepositoryInterface
	permRepo repositories.PermissionRepositoryInterface
	permSvc  AuthPermissionServiceInterface
	txm      repositories.TxManagerInterface
	logger   *zap.Logger
}

func NewRoleService(
	roleRepo repositories.RoleRepositoryInterface,
	permRepo repositories.PermissionRepositoryInterface,
	permSvc AuthPermissionServiceInterface,
	txm repositories.TxManagerInterface,
	logger *zap.Logger,
) RoleServiceInterface {
	return &RoleService{roleRepo: roleRepo, permRepo: permRepo, permSvc: permSvc, txm: txm, logger: logger}
}

func (s *RoleService) GetRoles(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error) {
	return s.roleRepo.GetRoles(ctx, filter)
}

func (s *RoleService) FindRole(ctx context.Context, id uint64) (*entities.Role, error) {
	return s.roleRepo.FindRole(ctx, id)
}

func (s *RoleService) CreateRole(ctx context.Context, payload dto.CreateRoleDTO) (*entities.Role, error) {
	id, err := s.roleRepo.CreateRole(ctx, payload)
	if err != nil {
		return nil, err
	}
	return s.roleRepo.FindRole(ctx, id)
}

func (s *RoleService) UpdateRole(ctx context.Context, id uint64, payload dto.UpdateRoleDTO) error {
	return s.roleRepo.UpdateRole(ctx, id, payload)
}

func (s *RoleService) DeleteRole(ctx context.Context, id uint64) error {
	if err := s.roleRepo.DeleteRole(ctx, id); err != nil {
		return err
	}
	if err := s.permSvc.InvalidateRole(ctx, id); err != nil {
		s.logger.Warn("failed to drop permissions cache for deleted role", zap.Uint64("role_id", id), zap.Error(err))
	}
	return nil
}

// SetRolePermissions replaces the role's permission set atomically and
// drops the cached permission map so the change takes effect on the next
// request.
func (s *RoleService) SetRolePermissions(ctx context.Context, roleID uint64, payload dto.SetRolePermissionsDTO) error {
	if _, err := s.roleRepo.FindRole(ctx, roleID); err != nil {
		return err
	}

	err := s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.permRepo.SetRolePermissions(ctx, tx, roleID, payload.PermissionIDs)
	})
	if err != nil {
		return err
	}

	if err := s.permSvc.InvalidateRole(ctx, roleID); err != nil {
		s.logger.Warn("failed to drop permissions cache", zap.Uint64("role_id", roleID), zap.Error(err))
	}
	return nil
}
