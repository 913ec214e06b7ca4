package services

import (
	"context"
	"errors"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/matching"
	"lab-system/internal/repositories"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	"go.uber.org/zap"
)

type SkillServiceInterface interface {
	GetSkills(ctx context.Context, filter types.Filter) ([]entities.Skill, uint64, error)
	FindSkill(ctx context.Context, id uint64) (*entities.Skill, error)
	CreateSkill(ctx context.Context, payload dto.CreateSkillDTO) (*entities.Skill, error)
	UpdateSkill(ctx context.Context, id uint64, payload dto.UpdateSkillDTO) error
	DeleteSkill(ctx context.Context, id uint64) error
	GetTechnicianSkills(ctx context.Context, userID uint64) ([]entities.TechnicianSkill, error)
	UpsertTechnicianSkill(ctx context.Context, payload dto.UpsertTechnicianSkillDTO) error
	DeleteTechnicianSkill(ctx context.Context, userID, skillID uint64) error
}

type SkillService struct {
	skillRepo repositories.SkillRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	logger    *zap.Logger
}

func NewSkillService(skillRepo repositories.SkillRepositoryInterface, userRepo repositories.UserRepositoryInterface, logger *zap.Logger) SkillServiceInterface {
	return &SkillService{skillRepo: skillRepo, userRepo: userRepo, logger: logger}
}

func (s *SkillService) GetSkills(ctx context.Context, filter types.Filter) ([]entities.Skill, uint64, error) {
	return s.skillRepo.GetSkills(ctx, filter)
}

func (s *SkillService) FindSkill(ctx context.Context, id uint64) (*entities.Skill, error) {
	return s.skillRepo.FindSkill(ctx, id)
}

func (s *SkillService) CreateSkill(ctx context.Context, payload dto.CreateSkillDTO) (*entities.Skill, error) {
	id, err := s.skillRepo.CreateSkill(ctx, payload)
	if err != nil {
		return nil, err
	}
	return s.skillRepo.FindSkill(ctx, id)
}

func (s *SkillService) UpdateSkill(ctx context.Context, id uint64, payload dto.UpdateSkillDTO) error {
	return s.skillRepo.UpdateSkill(ctx, id, payload)
}

func (s *SkillService) DeleteSkill(ctx context.Context, id uint64) error {
	return s.skillRepo.DeleteSkill(ctx, id)
}

func (s *SkillService) GetTechnicianSkills(ctx context.Context, userID uint64) ([]entities.TechnicianSkill, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.skillRepo.GetTechnicianSkills(ctx, userID)
}

func (s *SkillService) UpsertTechnicianSkill(ctx context.Context, payload dto.UpsertTechnicianSkillDTO) error {
	if _, err := s.userRepo.FindUserByID(ctx, payload.UserID); err != nil {
		return err
	}
	if _, err := s.skillRepo.FindSkill(ctx, payload.SkillID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewHttpError(400, "skill does not exist", nil, map[string]interface{}{"skill_id": payload.SkillID})
		}
		return err
	}

	proficiency, ok := matching.ParseProficiency(payload.Proficiency)
	if !ok {
		return apperrors.NewHttpError(400, "unknown proficiency level", errors.New(payload.Proficiency), nil)
	}

	var expiry *time.Time
	if payload.CertificationExpiry != nil {
		t, err := time.Parse("2006-01-02", *payload.CertificationExpiry)
		if err != nil {
			return apperrors.NewHttpError(400, "certification_expiry must be YYYY-MM-DD", err, nil)
		}
		expiry = &t
	}

	return s.skillRepo.UpsertTechnicianSkill(ctx, entities.TechnicianSkill{
		UserID:              payload.UserID,
		SkillID:             payload.SkillID,
		Proficiency:         proficiency,
		IsCertified:         payload.IsCertified,
		CertificationExpiry: expiry,
	})
}

func (s *SkillService) DeleteTechnicianSkill(ctx context.Context, userID, skillID uint64) error {
	return s.skillRepo.DeleteTechnicianSkill(ctx, userID, skillID)
}
