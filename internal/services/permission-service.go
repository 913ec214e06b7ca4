package services

import (
	"context"
	"encoding/json"
	"fmt"

	"lab-system/internal/entities"
	"lab-system/internal/repositories"
	"lab-system/pkg/config"

	"go.uber.org/zap"
)

// AuthPermissionService resolves a role's permission codes, with a Redis
// cache in front of the database. It backs both the auth middleware and
// the permission listing endpoint.
type AuthPermissionServiceInterface interface {
	GetPermissionsForRole(ctx context.Context, roleID uint64) (map[string]bool, error)
	GetAllPermissions(ctx context.Context) ([]entities.Permission, error)
	InvalidateRole(ctx context.Context, roleID uint64) error
}

type AuthPermissionService struct {
	permRepo  repositories.PermissionRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	cfg       config.CacheConfig
	logger    *zap.Logger
}

func NewAuthPermissionService(
	permRepo repositories.PermissionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cfg config.CacheConfig,
	logger *zap.Logger,
) AuthPermissionServiceInterface {
	return &AuthPermissionService{permRepo: permRepo, cacheRepo: cacheRepo, cfg: cfg, logger: logger}
}

func permissionsCacheKey(roleID uint64) string {
	return fmt.Sprintf("role_permissions:%d", roleID)
}

func (s *AuthPermissionService) GetPermissionsForRole(ctx context.Context, roleID uint64) (map[string]bool, error) {
	key := permissionsCacheKey(roleID)

	if cached, err := s.cacheRepo.Get(ctx, key); err == nil && cached != "" {
		var codes []string
		if err := json.Unmarshal([]byte(cached), &codes); err == nil {
			return codesToMap(codes), nil
		}
		s.logger.Warn("unreadable permissions cache entry, falling back to db", zap.String("key", key))
	}

	codes, err := s.permRepo.GetPermissionCodesForRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(codes); err == nil {
		if err := s.cacheRepo.Set(ctx, key, string(payload), s.cfg.PermissionsTTL); err != nil {
			s.logger.Warn("failed to cache role permissions", zap.Uint64("role_id", roleID), zap.Error(err))
		}
	}
	return codesToMap(codes), nil
}

func (s *AuthPermissionService) GetAllPermissions(ctx context.Context) ([]entities.Permission, error) {
	return s.permRepo.GetPermissions(ctx)
}

func (s *AuthPermissionService) InvalidateRole(ctx context.Context, roleID uint64) error {
	return s.cacheRepo.Del(ctx, permissionsCacheKey(roleID))
}

func codesToMap(codes []string) map[string]bool {
	m := make(map[string]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}
