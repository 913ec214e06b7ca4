package services

import (
	"context"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/repositories"
	"lab-system/pkg/types"

	"go.uber.org/zap"
)

// Thin pass-through services for the client and laboratory catalogs.
// They exist so controllers never touch repositories directly and
// cross-entity rules have a place to land.

type ClientServiceInterface interface {
	GetClients(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error)
	FindClient(ctx context.Context, id uint64) (*entities.Client, error)
	CreateClient(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error)
	UpdateClient(ctx context.Context, id uint64, payload dto.UpdateClientDTO) error
	DeleteClient(ctx context.Context, id uint64) error
}

type ClientService struct {
	repo   repositories.ClientRepositoryInterface
	logger *zap.Logger
}

func NewClientService(repo repositories.ClientRepositoryInterface, logger *zap.Logger) ClientServiceInterface {
	return &ClientService{repo: repo, logger: logger}
}

func (s *ClientService) GetClients(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error) {
	return s.repo.GetClients(ctx, filter)
}

func (s *ClientService) FindClient(ctx context.Context, id uint64) (*entities.Client, error) {
	return s.repo.FindClient(ctx, id)
}

func (s *ClientService) CreateClient(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error) {
	id, err := s.repo.CreateClient(ctx, payload)
	if err != nil {
		return nil, err
	}
	return s.repo.FindClient(ctx, id)
}

func (s *ClientService) UpdateClient(ctx context.Context, id uint64, payload dto.UpdateClientDTO) error {
	return s.repo.UpdateClient(ctx, id, payload)
}

func (s *ClientService) DeleteClient(ctx context.Context, id uint64) error {
	return s.repo.DeleteClient(ctx, id)
}

type LaboratoryServiceInterface interface {
	GetLaboratories(ctx context.Context, filter types.Filter) ([]entities.Laboratory, uint64, error)
	FindLaboratory(ctx context.Context, id uint64) (*entities.Laboratory, error)
	CreateLaboratory(ctx context.Context, payload dto.CreateLaboratoryDTO) (*entities.Laboratory, error)
	UpdateLaboratory(ctx context.Context, id uint64, payload dto.UpdateLaboratoryDTO) error
	DeleteLaboratory(ctx context.Context, id uint64) error
}

type LaboratoryService struct {
	repo   repositories.LaboratoryRepositoryInterface
	logger *zap.Logger
}

func NewLaboratoryService(repo repositories.LaboratoryRepositoryInterface, logger *zap.Logger) LaboratoryServiceInterface {
	return &LaboratoryService{repo: repo, logger: logger}
}

func (s *LaboratoryService) GetLaboratories(ctx context.Context, filter types.Filter) ([]entities.Laboratory, uint64, error) {
	return s.repo.GetLaboratories(ctx, filter)
}

func (s *LaboratoryService) FindLaboratory(ctx context.Context, id uint64) (*entities.Laboratory, error) {
	return s.repo.FindLaboratory(ctx, id)
}

func (s *LaboratoryService) CreateLaboratory(ctx context.Context, payload dto.CreateLaboratoryDTO) (*entities.Laboratory, error) {
	id, err := s.repo.CreateLaboratory(ctx, payload)
	if err != nil {
		return nil, err
	}
	return s.repo.FindLaboratory(ctx, id)
}

func (s *LaboratoryService) UpdateLaboratory(ctx context.Context, id uint64, payload dto.UpdateLaboratoryDTO) error {
	return s.repo.UpdateLaboratory(ctx, id, payload)
}

func (s *LaboratoryService) DeleteLaboratory(ctx context.Context, id uint64) error {
	return s.repo.DeleteLaboratory(ctx, id)
}
