package services

import (
	"context"
	"errors"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/repositories"
	"lab-system/internal/scheduling"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationServiceInterface interface {
	GetReservations(ctx context.Context, filter types.Filter) ([]entities.Reservation, uint64, error)
	FindReservation(ctx context.Context, id uint64) (*entities.Reservation, error)
	CreateReservation(ctx context.Context, actorID uint64, payload dto.CreateReservationDTO) (*entities.Reservation, error)
	TransitionReservation(ctx context.Context, id uint64, payload dto.TransitionReservationDTO) (*entities.Reservation, error)
	RescheduleReservation(ctx context.Context, id uint64, payload dto.RescheduleReservationDTO) (*entities.Reservation, error)
}

type ReservationService struct {
	resRepo   repositories.ReservationRepositoryInterface
	equipRepo repositories.EquipmentRepositoryInterface
	woRepo    repositories.WorkOrderRepositoryInterface
	txm       repositories.TxManagerInterface
	locks     *scheduling.LockRegistry
	logger    *zap.Logger
}

func NewReservationService(
	resRepo repositories.ReservationRepositoryInterface,
	equipRepo repositories.EquipmentRepositoryInterface,
	woRepo repositories.WorkOrderRepositoryInterface,
	txm repositories.TxManagerInterface,
	locks *scheduling.LockRegistry,
	logger *zap.Logger,
) ReservationServiceInterface {
	return &ReservationService{
		resRepo:   resRepo,
		equipRepo: equipRepo,
		woRepo:    woRepo,
		txm:       txm,
		locks:     locks,
		logger:    logger,
	}
}

func (s *ReservationService) GetReservations(ctx context.Context, filter types.Filter) ([]entities.Reservation, uint64, error) {
	return s.resRepo.GetReservations(ctx, filter)
}

func (s *ReservationService) FindReservation(ctx context.Context, id uint64) (*entities.Reservation, error) {
	return s.resRepo.FindReservation(ctx, id)
}

// CreateReservation admits a new claim on equipment. It holds the
// equipment's admission lock across the conflict check and the insert,
// both running in one transaction, so two concurrent requests cannot each
// observe a free slot and both commit.
func (s *ReservationService) CreateReservation(ctx context.Context, actorID uint64, payload dto.CreateReservationDTO) (*entities.Reservation, error) {
	iv, err := parseInterval(payload.StartsAt, payload.EndsAt)
	if err != nil {
		return nil, err
	}

	consumed := payload.CapacityConsumed
	if consumed <= 0 {
		consumed = 1
	}

	if payload.WorkOrderID != nil {
		if _, err := s.woRepo.FindWorkOrder(ctx, *payload.WorkOrderID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewHttpError(400, "work order does not exist", nil,
					map[string]interface{}{"work_order_id": *payload.WorkOrderID})
			}
			return nil, err
		}
	}

	unlock := s.locks.Lock(payload.EquipmentID)
	defer unlock()

	var created uint64
	err = s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipRepo.FindEquipmentTx(ctx, tx, payload.EquipmentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewHttpError(404, scheduling.ErrResourceNotFound.Error(), scheduling.ErrResourceNotFound,
					map[string]interface{}{"equipment_id": payload.EquipmentID})
			}
			return err
		}

		checker := scheduling.NewChecker(s.resRepo.TxStore(tx))
		if err := checker.TryAdmit(ctx, scheduling.AdmitRequest{
			Resource:         equipment.SchedulingResource(),
			Interval:         iv,
			CapacityConsumed: consumed,
		}); err != nil {
			return admissionError(err)
		}

		created, err = s.resRepo.CreateReservation(ctx, tx, entities.Reservation{
			EquipmentID:      payload.EquipmentID,
			WorkOrderID:      payload.WorkOrderID,
			TechnicianID:     payload.TechnicianID,
			StartsAt:         iv.Start,
			EndsAt:           iv.End,
			Status:           scheduling.StatusScheduled,
			CapacityConsumed: consumed,
			Notes:            payload.Notes,
			CreatedBy:        actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.resRepo.FindReservation(ctx, created)
}

func (s *ReservationService) TransitionReservation(ctx context.Context, id uint64, payload dto.TransitionReservationDTO) (*entities.Reservation, error) {
	next, err := scheduling.ParseStatus(payload.Status)
	if err != nil {
		return nil, apperrors.NewHttpError(400, err.Error(), err, nil)
	}

	current, err := s.resRepo.FindReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, apperrors.NewHttpError(409, "invalid status transition", nil, map[string]interface{}{
			"reservation_id": id,
			"from":           string(current.Status),
			"to":             string(next),
		})
	}

	if err := s.resRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	return s.resRepo.FindReservation(ctx, id)
}

// RescheduleReservation moves a reservation to a new interval. The
// proposal is validated against every active reservation except the one
// being moved, under the same lock and transaction discipline as create.
func (s *ReservationService) RescheduleReservation(ctx context.Context, id uint64, payload dto.RescheduleReservationDTO) (*entities.Reservation, error) {
	iv, err := parseInterval(payload.StartsAt, payload.EndsAt)
	if err != nil {
		return nil, err
	}

	current, err := s.resRepo.FindReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.IsActive() {
		return nil, apperrors.NewHttpError(409, "only scheduled or in-progress reservations can be rescheduled", nil,
			map[string]interface{}{"reservation_id": id, "status": string(current.Status)})
	}

	unlock := s.locks.Lock(current.EquipmentID)
	defer unlock()

	err = s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipRepo.FindEquipmentTx(ctx, tx, current.EquipmentID)
		if err != nil {
			return err
		}

		excludeID := id
		checker := scheduling.NewChecker(s.resRepo.TxStore(tx))
		if err := checker.TryAdmit(ctx, scheduling.AdmitRequest{
			Resource:         equipment.SchedulingResource(),
			Interval:         iv,
			CapacityConsumed: current.CapacityConsumed,
			ExcludeID:        &excludeID,
		}); err != nil {
			return admissionError(err)
		}

		return s.resRepo.UpdateInterval(ctx, tx, id, iv.Start, iv.End)
	})
	if err != nil {
		return nil, err
	}

	return s.resRepo.FindReservation(ctx, id)
}

func parseInterval(startsAt, endsAt string) (scheduling.Interval, error) {
	start, err := time.Parse(time.RFC3339, startsAt)
	if err != nil {
		return scheduling.Interval{}, apperrors.NewHttpError(400, "starts_at must be RFC 3339", err, nil)
	}
	end, err := time.Parse(time.RFC3339, endsAt)
	if err != nil {
		return scheduling.Interval{}, apperrors.NewHttpError(400, "ends_at must be RFC 3339", err, nil)
	}
	iv := scheduling.Interval{Start: start, End: end}
	if !iv.Valid() {
		return scheduling.Interval{}, apperrors.NewHttpError(400, scheduling.ErrInvalidInterval.Error(), scheduling.ErrInvalidInterval, nil)
	}
	return iv, nil
}

// admissionError maps checker rejections onto HTTP errors: a malformed
// interval is the caller's fault (400), every genuine conflict is 409
// with a structured body naming the reason.
func admissionError(err error) error {
	if errors.Is(err, scheduling.ErrInvalidInterval) {
		return apperrors.NewHttpError(400, err.Error(), err, nil)
	}

	var exclusive *scheduling.ExclusiveConflictError
	if errors.As(err, &exclusive) {
		return apperrors.NewHttpError(409, err.Error(), err, nil).WithDetails(dto.ConflictDetailsDTO{
			Reason:      "exclusive_conflict",
			ConflictIDs: exclusive.ConflictIDs,
		})
	}

	var limit *scheduling.ConcurrencyLimitError
	if errors.As(err, &limit) {
		return apperrors.NewHttpError(409, err.Error(), err, nil).WithDetails(dto.ConflictDetailsDTO{
			Reason:    "concurrency_limit_exceeded",
			Limit:     limit.Limit,
			Attempted: limit.Attempted,
		})
	}

	var capacity *scheduling.CapacityExceededError
	if errors.As(err, &capacity) {
		return apperrors.NewHttpError(409, err.Error(), err, nil).WithDetails(dto.ConflictDetailsDTO{
			Reason:    "capacity_exceeded",
			Capacity:  capacity.Capacity,
			Used:      capacity.Used,
			Requested: capacity.Requested,
		})
	}

	return err
}
