package services

import (
	"context"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/matching"
	"lab-system/internal/repositories"
	"lab-system/pkg/types"

	"go.uber.org/zap"
)

// MatchingService answers "who can run this equipment": it ranks active
// technicians against the equipment's skill requirements, breaking score
// ties by current workload.
type MatchingServiceInterface interface {
	GetCandidates(ctx context.Context, equipmentID uint64) ([]dto.CandidateDTO, error)
	IsQualified(ctx context.Context, userID, equipmentID uint64) (bool, error)
}

type MatchingService struct {
	equipRepo repositories.EquipmentRepositoryInterface
	skillRepo repositories.SkillRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	resRepo   repositories.ReservationRepositoryInterface
	logger    *zap.Logger
}

func NewMatchingService(
	equipRepo repositories.EquipmentRepositoryInterface,
	skillRepo repositories.SkillRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	resRepo repositories.ReservationRepositoryInterface,
	logger *zap.Logger,
) MatchingServiceInterface {
	return &MatchingService{
		equipRepo: equipRepo,
		skillRepo: skillRepo,
		userRepo:  userRepo,
		resRepo:   resRepo,
		logger:    logger,
	}
}

func (s *MatchingService) GetCandidates(ctx context.Context, equipmentID uint64) ([]dto.CandidateDTO, error) {
	if _, err := s.equipRepo.FindEquipment(ctx, equipmentID); err != nil {
		return nil, err
	}
	requirements, err := s.equipRepo.GetSkillRequirements(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	reqViews := make([]matching.Requirement, 0, len(requirements))
	for _, r := range requirements {
		reqViews = append(reqViews, r.MatchingView())
	}

	users, _, err := s.userRepo.GetUsers(ctx, types.Filter{
		Filter: map[string]interface{}{"is_active": true},
	})
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(users))
	names := make(map[uint64]string, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
		names[u.ID] = u.FullName
	}

	skillsByUser, err := s.skillRepo.GetSkillsForTechnicians(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	workloads, err := s.resRepo.CountActiveByTechnician(ctx, userIDs, now)
	if err != nil {
		return nil, err
	}

	pool := make([]matching.Candidate, 0, len(users))
	for _, u := range users {
		records := skillsByUser[u.ID]
		views := make([]matching.SkillRecord, 0, len(records))
		for _, rec := range records {
			views = append(views, rec.MatchingView())
		}
		pool = append(pool, matching.Candidate{
			ID:       u.ID,
			Skills:   views,
			Workload: workloads[u.ID],
		})
	}

	ranked := matching.RankCandidates(pool, reqViews, now)
	out := make([]dto.CandidateDTO, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, dto.CandidateDTO{
			UserID:   r.CandidateID,
			FullName: names[r.CandidateID],
			Score:    r.Score,
			Workload: r.Workload,
		})
	}
	return out, nil
}

// IsQualified checks a single user against the equipment's requirements.
// Used when a work order is assigned with an equipment hint.
func (s *MatchingService) IsQualified(ctx context.Context, userID, equipmentID uint64) (bool, error) {
	requirements, err := s.equipRepo.GetSkillRequirements(ctx, equipmentID)
	if err != nil {
		return false, err
	}
	if len(requirements) == 0 {
		return true, nil
	}

	reqViews := make([]matching.Requirement, 0, len(requirements))
	for _, r := range requirements {
		reqViews = append(reqViews, r.MatchingView())
	}

	records, err := s.skillRepo.GetTechnicianSkills(ctx, userID)
	if err != nil {
		return false, err
	}
	views := make([]matching.SkillRecord, 0, len(records))
	for _, rec := range records {
		views = append(views, rec.MatchingView())
	}

	result := matching.ScoreCandidate(matching.Candidate{ID: userID, Skills: views}, reqViews, time.Now())
	return result != nil, nil
}
