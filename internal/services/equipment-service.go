package services

import (
	"context"
	"errors"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/matching"
	"lab-system/internal/repositories"
	"lab-system/internal/scheduling"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// allTime spans every representable reservation, used to ask the store
// for any active booking at all.
var allTime = scheduling.Interval{
	Start: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
}

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) error
	DeleteEquipment(ctx context.Context, id uint64) error
	GetSkillRequirements(ctx context.Context, equipmentID uint64) ([]entities.EquipmentSkillRequirement, error)
	SetSkillRequirements(ctx context.Context, equipmentID uint64, payload dto.SetSkillRequirementsDTO) error
}

type EquipmentService struct {
	equipRepo repositories.EquipmentRepositoryInterface
	resRepo   repositories.ReservationRepositoryInterface
	skillRepo repositories.SkillRepositoryInterface
	txm       repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewEquipmentService(
	equipRepo repositories.EquipmentRepositoryInterface,
	resRepo repositories.ReservationRepositoryInterface,
	skillRepo repositories.SkillRepositoryInterface,
	txm repositories.TxManagerInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{equipRepo: equipRepo, resRepo: resRepo, skillRepo: skillRepo, txm: txm, logger: logger}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	return s.equipRepo.GetEquipments(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return s.equipRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	if err := validateSchedulingMode(payload.Exclusive, payload.ConcurrencyLimit, payload.Capacity); err != nil {
		return nil, err
	}
	id, err := s.equipRepo.CreateEquipment(ctx, payload)
	if err != nil {
		return nil, err
	}
	return s.equipRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) error {
	current, err := s.equipRepo.FindEquipment(ctx, id)
	if err != nil {
		return err
	}

	exclusive := current.Exclusive
	if payload.Exclusive.Valid {
		exclusive = payload.Exclusive.Bool
	}
	limit := current.ConcurrencyLimit
	if payload.ConcurrencyLimit.Valid {
		v := payload.ConcurrencyLimit.Int
		limit = &v
	}
	capacity := current.Capacity
	if payload.Capacity.Valid {
		v := payload.Capacity.Int
		capacity = &v
	}
	if err := validateSchedulingMode(exclusive, limit, capacity); err != nil {
		return err
	}

	return s.equipRepo.UpdateEquipment(ctx, id, payload)
}

// validateSchedulingMode enforces that a resource is either exclusive or
// limit-governed, never both, and that concurrent resources declare a
// positive limit.
func validateSchedulingMode(exclusive bool, limit, capacity *int) error {
	if exclusive && (limit != nil || capacity != nil) {
		return apperrors.NewHttpError(400, "exclusive equipment cannot carry a concurrency limit or capacity", nil, nil)
	}
	if !exclusive && limit == nil {
		return apperrors.NewHttpError(400, "non-exclusive equipment requires a concurrency limit", nil, nil)
	}
	if limit != nil && *limit < 1 {
		return apperrors.NewHttpError(400, "concurrency limit must be at least 1", nil, nil)
	}
	if capacity != nil && *capacity < 1 {
		return apperrors.NewHttpError(400, "capacity must be at least 1", nil, nil)
	}
	return nil
}

// DeleteEquipment refuses to remove equipment that still has scheduled or
// in-progress reservations.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	if _, err := s.equipRepo.FindEquipment(ctx, id); err != nil {
		return err
	}

	active, err := s.resRepo.ActiveOverlapping(ctx, id, allTime, nil)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		ids := make([]uint64, 0, len(active))
		for _, r := range active {
			ids = append(ids, r.ID)
		}
		return apperrors.NewHttpError(409, scheduling.ErrResourceInUse.Error(), scheduling.ErrResourceInUse,
			map[string]interface{}{"equipment_id": id}).
			WithDetails(dto.ConflictDetailsDTO{Reason: "equipment_in_use", ConflictIDs: ids})
	}

	return s.equipRepo.SoftDeleteEquipment(ctx, id)
}

func (s *EquipmentService) GetSkillRequirements(ctx context.Context, equipmentID uint64) ([]entities.EquipmentSkillRequirement, error) {
	if _, err := s.equipRepo.FindEquipment(ctx, equipmentID); err != nil {
		return nil, err
	}
	return s.equipRepo.GetSkillRequirements(ctx, equipmentID)
}

func (s *EquipmentService) SetSkillRequirements(ctx context.Context, equipmentID uint64, payload dto.SetSkillRequirementsDTO) error {
	if _, err := s.equipRepo.FindEquipment(ctx, equipmentID); err != nil {
		return err
	}

	reqs := make([]entities.EquipmentSkillRequirement, 0, len(payload.Requirements))
	for _, r := range payload.Requirements {
		p, ok := matching.ParseProficiency(r.MinimumProficiency)
		if !ok {
			return apperrors.NewHttpError(400, "unknown proficiency level", errors.New(r.MinimumProficiency), nil)
		}
		if _, err := s.skillRepo.FindSkill(ctx, r.SkillID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewHttpError(400, "skill does not exist", nil, map[string]interface{}{"skill_id": r.SkillID})
			}
			return err
		}
		reqs = append(reqs, entities.EquipmentSkillRequirement{
			EquipmentID:           equipmentID,
			SkillID:               r.SkillID,
			MinimumProficiency:    p,
			CertificationRequired: r.CertificationRequired,
		})
	}

	return s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.equipRepo.SetSkillRequirements(ctx, tx, equipmentID, reqs)
	})
}
