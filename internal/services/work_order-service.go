package services

import (
	"context"
	"errors"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/repositories"
	"lab-system/pkg/config"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	"go.uber.org/zap"
)

type WorkOrderServiceInterface interface {
	GetWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error)
	FindWorkOrder(ctx context.Context, id uint64) (*entities.WorkOrder, error)
	CreateWorkOrder(ctx context.Context, actorID uint64, payload dto.CreateWorkOrderDTO) (*entities.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, id uint64, payload dto.UpdateWorkOrderDTO) (*entities.WorkOrder, error)
	AssignWorkOrder(ctx context.Context, id uint64, payload dto.AssignWorkOrderDTO) (*entities.WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, id uint64) error
	RecalculatePriorities(ctx context.Context) (int, error)
}

type WorkOrderService struct {
	woRepo     repositories.WorkOrderRepositoryInterface
	clientRepo repositories.ClientRepositoryInterface
	userRepo   repositories.UserRepositoryInterface
	matcher    MatchingServiceInterface
	policy     config.PriorityPolicy
	logger     *zap.Logger
}

func NewWorkOrderService(
	woRepo repositories.WorkOrderRepositoryInterface,
	clientRepo repositories.ClientRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	matcher MatchingServiceInterface,
	policy config.PriorityPolicy,
	logger *zap.Logger,
) WorkOrderServiceInterface {
	return &WorkOrderService{
		woRepo:     woRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
		matcher:    matcher,
		policy:     policy,
		logger:     logger,
	}
}

func (s *WorkOrderService) GetWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error) {
	return s.woRepo.GetWorkOrders(ctx, filter)
}

func (s *WorkOrderService) FindWorkOrder(ctx context.Context, id uint64) (*entities.WorkOrder, error) {
	return s.woRepo.FindWorkOrder(ctx, id)
}

func (s *WorkOrderService) clientPriorityLevel(ctx context.Context, clientID *uint64) (string, error) {
	if clientID == nil {
		return "", nil
	}
	client, err := s.clientRepo.FindClient(ctx, *clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewHttpError(400, "client does not exist", nil, map[string]interface{}{"client_id": *clientID})
		}
		return "", err
	}
	return client.PriorityLevel, nil
}

func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, actorID uint64, payload dto.CreateWorkOrderDTO) (*entities.WorkOrder, error) {
	var slaDueAt *time.Time
	if payload.SLADueAt != nil && *payload.SLADueAt != "" {
		t, err := time.Parse(time.RFC3339, *payload.SLADueAt)
		if err != nil {
			return nil, apperrors.NewHttpError(400, "sla_due_at must be RFC 3339", err, nil)
		}
		slaDueAt = &t
	}

	level, err := s.clientPriorityLevel(ctx, payload.ClientID)
	if err != nil {
		return nil, err
	}

	category := payload.SourceCategory
	if category == "" {
		category = s.policy.DefaultCategory
	}

	number, err := s.woRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := entities.WorkOrder{
		Number:         number,
		Title:          payload.Title,
		Description:    payload.Description,
		ClientID:       payload.ClientID,
		LaboratoryID:   payload.LaboratoryID,
		Status:         entities.WorkOrderOpen,
		SourceCategory: category,
		SLADueAt:       slaDueAt,
		PriorityScore:  ComputePriorityScore(s.policy, category, level, slaDueAt, time.Now()),
		CreatedBy:      actorID,
	}
	id, err := s.woRepo.CreateWorkOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	return s.woRepo.FindWorkOrder(ctx, id)
}

func (s *WorkOrderService) UpdateWorkOrder(ctx context.Context, id uint64, payload dto.UpdateWorkOrderDTO) (*entities.WorkOrder, error) {
	order, err := s.woRepo.FindWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Title.Valid {
		order.Title = payload.Title.String
	}
	if payload.Description.Valid {
		order.Description = payload.Description.String
	}
	if payload.ClientID.Valid {
		order.ClientID = &payload.ClientID.Uint64
	}
	if payload.LaboratoryID.Valid {
		order.LaboratoryID = &payload.LaboratoryID.Uint64
	}
	if payload.SourceCategory.Valid {
		order.SourceCategory = payload.SourceCategory.String
	}
	if payload.SLADueAt.Valid {
		t, err := time.Parse(time.RFC3339, payload.SLADueAt.String)
		if err != nil {
			return nil, apperrors.NewHttpError(400, "sla_due_at must be RFC 3339", err, nil)
		}
		order.SLADueAt = &t
	}
	if payload.Status.Valid {
		next := entities.WorkOrderStatus(payload.Status.String)
		if order.Status == entities.WorkOrderCompleted || order.Status == entities.WorkOrderCancelled {
			return nil, apperrors.NewHttpError(409, "work order is already closed", nil, map[string]interface{}{
				"work_order_id": id,
				"status":        string(order.Status),
			})
		}
		order.Status = next
		if next == entities.WorkOrderCompleted {
			now := time.Now()
			order.CompletedAt = &now
		}
	}

	level, err := s.clientPriorityLevel(ctx, order.ClientID)
	if err != nil {
		return nil, err
	}
	order.PriorityScore = ComputePriorityScore(s.policy, order.SourceCategory, level, order.SLADueAt, time.Now())

	if err := s.woRepo.UpdateWorkOrder(ctx, *order); err != nil {
		return nil, err
	}
	return s.woRepo.FindWorkOrder(ctx, id)
}

// AssignWorkOrder hands the order to a technician. With an equipment
// hint the assignee must satisfy that equipment's skill requirements.
func (s *WorkOrderService) AssignWorkOrder(ctx context.Context, id uint64, payload dto.AssignWorkOrderDTO) (*entities.WorkOrder, error) {
	order, err := s.woRepo.FindWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == entities.WorkOrderCompleted || order.Status == entities.WorkOrderCancelled {
		return nil, apperrors.NewHttpError(409, "closed work orders cannot be assigned", nil, map[string]interface{}{
			"work_order_id": id,
			"status":        string(order.Status),
		})
	}

	assignee, err := s.userRepo.FindUserByID(ctx, payload.AssigneeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(400, "assignee does not exist", nil, map[string]interface{}{"assignee_id": payload.AssigneeID})
		}
		return nil, err
	}
	if !assignee.IsActive {
		return nil, apperrors.NewHttpError(400, "assignee is deactivated", nil, map[string]interface{}{"assignee_id": payload.AssigneeID})
	}

	if payload.EquipmentID != nil {
		qualified, err := s.matcher.IsQualified(ctx, payload.AssigneeID, *payload.EquipmentID)
		if err != nil {
			return nil, err
		}
		if !qualified {
			return nil, apperrors.NewHttpError(409, "assignee does not meet the equipment's skill requirements", nil,
				map[string]interface{}{"assignee_id": payload.AssigneeID, "equipment_id": *payload.EquipmentID})
		}
	}

	if err := s.woRepo.SetAssignee(ctx, id, payload.AssigneeID); err != nil {
		return nil, err
	}
	return s.woRepo.FindWorkOrder(ctx, id)
}

func (s *WorkOrderService) DeleteWorkOrder(ctx context.Context, id uint64) error {
	return s.woRepo.SoftDeleteWorkOrder(ctx, id)
}

// RecalculatePriorities refreshes the priority score of every open order.
// Meant to run periodically so SLA urgency climbs as deadlines approach.
func (s *WorkOrderService) RecalculatePriorities(ctx context.Context) (int, error) {
	orders, err := s.woRepo.GetOpenOrders(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	levels := make(map[uint64]string)
	scores := make(map[uint64]int, len(orders))
	for _, order := range orders {
		level := ""
		if order.ClientID != nil {
			cached, ok := levels[*order.ClientID]
			if !ok {
				client, err := s.clientRepo.FindClient(ctx, *order.ClientID)
				if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
					return 0, err
				}
				if client != nil {
					cached = client.PriorityLevel
				}
				levels[*order.ClientID] = cached
			}
			level = cached
		}

		next := ComputePriorityScore(s.policy, order.SourceCategory, level, order.SLADueAt, now)
		if next != order.PriorityScore {
			scores[order.ID] = next
		}
	}

	if len(scores) == 0 {
		return 0, nil
	}
	if err := s.woRepo.UpdatePriorityScores(ctx, scores); err != nil {
		return 0, err
	}
	s.logger.Info("priority scores recalculated", zap.Int("updated", len(scores)))
	return len(scores), nil
}
