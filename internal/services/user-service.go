package services

import (
	"context"
	"errors"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/repositories"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) error
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	roleRepo repositories.RoleRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, roleRepo repositories.RoleRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	return s.userRepo.GetUsers(ctx, filter)
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return s.userRepo.FindUserByID(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	if _, err := s.userRepo.FindUserByEmail(ctx, payload.Email); err == nil {
		return nil, apperrors.NewHttpError(409, "user with this email already exists", nil, map[string]interface{}{"email": payload.Email})
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if _, err := s.roleRepo.FindRole(ctx, payload.RoleID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(400, "role does not exist", nil, map[string]interface{}{"role_id": payload.RoleID})
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entities.User{
		FullName:     payload.FullName,
		Email:        payload.Email,
		PasswordHash: string(hash),
		Position:     payload.Position,
		RoleID:       payload.RoleID,
		LaboratoryID: payload.LaboratoryID,
		IsActive:     true,
	}
	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindUserByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) error {
	if payload.RoleID.Valid {
		if _, err := s.roleRepo.FindRole(ctx, payload.RoleID.Uint64); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewHttpError(400, "role does not exist", nil, map[string]interface{}{"role_id": payload.RoleID.Uint64})
			}
			return err
		}
	}
	return s.userRepo.UpdateUser(ctx, id, payload)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	return s.userRepo.SoftDeleteUser(ctx, id)
}
