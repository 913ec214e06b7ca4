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

type MaterialServiceInterface interface {
	GetMaterials(ctx context.Context, filter types.Filter) ([]entities.Material, uint64, error)
	FindMaterial(ctx context.Context, id uint64) (*entities.Material, error)
	CreateMaterial(ctx context.Context, payload dto.CreateMaterialDTO) (*entities.Material, error)
	UpdateMaterial(ctx context.Context, id uint64, payload dto.UpdateMaterialDTO) error
	DeleteMaterial(ctx context.Context, id uint64) error
	AdjustStock(ctx context.Context, id uint64, actorID uint64, payload dto.AdjustStockDTO) (*entities.Material, error)
	GetMovements(ctx context.Context, materialID uint64, filter types.Filter) ([]entities.MaterialMovement, uint64, error)
}

type MaterialService struct {
	repo   repositories.MaterialRepositoryInterface
	txm    repositories.TxManagerInterface
	logger *zap.Logger
}

func NewMaterialService(repo repositories.MaterialRepositoryInterface, txm repositories.TxManagerInterface, logger *zap.Logger) MaterialServiceInterface {
	return &MaterialService{repo: repo, txm: txm, logger: logger}
}

func (s *MaterialService) GetMaterials(ctx context.Context, filter types.Filter) ([]entities.Material, uint64, error) {
	return s.repo.GetMaterials(ctx, filter)
}

func (s *MaterialService) FindMaterial(ctx context.Context, id uint64) (*entities.Material, error) {
	return s.repo.FindMaterial(ctx, id)
}

func (s *MaterialService) CreateMaterial(ctx context.Context, payload dto.CreateMaterialDTO) (*entities.Material, error) {
	id, err := s.repo.CreateMaterial(ctx, payload)
	if err != nil {
		return nil, err
	}
	return s.repo.FindMaterial(ctx, id)
}

func (s *MaterialService) UpdateMaterial(ctx context.Context, id uint64, payload dto.UpdateMaterialDTO) error {
	return s.repo.UpdateMaterial(ctx, id, payload)
}

func (s *MaterialService) DeleteMaterial(ctx context.Context, id uint64) error {
	return s.repo.DeleteMaterial(ctx, id)
}

// AdjustStock moves stock and writes the audit trail atomically. A delta
// that would drive the balance negative is rejected.
func (s *MaterialService) AdjustStock(ctx context.Context, id uint64, actorID uint64, payload dto.AdjustStockDTO) (*entities.Material, error) {
	err := s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		_, err := s.repo.AdjustStock(ctx, tx, id, payload.Delta, payload.Reason, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindMaterial(ctx, id)
}

func (s *MaterialService) GetMovements(ctx context.Context, materialID uint64, filter types.Filter) ([]entities.MaterialMovement, uint64, error) {
	if _, err := s.repo.FindMaterial(ctx, materialID); err != nil {
		return nil, 0, err
	}
	return s.repo.GetMovements(ctx, materialID, filter)
}
