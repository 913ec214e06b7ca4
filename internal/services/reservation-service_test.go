package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/scheduling"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTxManager runs the callback directly; the fakes below ignore the tx
// handle, so a nil pgx.Tx is enough.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeReservationRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]entities.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{nextID: 1, rows: make(map[uint64]entities.Reservation)}
}

func (r *fakeReservationRepo) GetReservations(_ context.Context, _ types.Filter) ([]entities.Reservation, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Reservation, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeReservationRepo) FindReservation(_ context.Context, id uint64) (*entities.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &row, nil
}

func (r *fakeReservationRepo) CreateReservation(_ context.Context, _ pgx.Tx, reservation entities.Reservation) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation.ID = r.nextID
	r.nextID++
	r.rows[reservation.ID] = reservation
	return reservation.ID, nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, id uint64, status scheduling.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	row.Status = status
	r.rows[id] = row
	return nil
}

func (r *fakeReservationRepo) UpdateInterval(_ context.Context, _ pgx.Tx, id uint64, starts, ends time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	row.StartsAt, row.EndsAt = starts, ends
	r.rows[id] = row
	return nil
}

func (r *fakeReservationRepo) ActiveOverlapping(_ context.Context, resourceID uint64, iv scheduling.Interval, excludeID *uint64) ([]scheduling.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []scheduling.Reservation
	for _, row := range r.rows {
		if row.EquipmentID != resourceID || !row.Status.IsActive() {
			continue
		}
		if excludeID != nil && row.ID == *excludeID {
			continue
		}
		if row.Interval().Overlaps(iv) {
			out = append(out, row.SchedulingView())
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) TxStore(_ pgx.Tx) scheduling.IntervalStore { return r }

func (r *fakeReservationRepo) CountActiveByTechnician(_ context.Context, technicianIDs []uint64, from time.Time) (map[uint64]int, error) {
	return map[uint64]int{}, nil
}

type fakeEquipmentRepo struct {
	rows map[uint64]entities.Equipment
}

func (r *fakeEquipmentRepo) find(id uint64) (*entities.Equipment, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &row, nil
}

func (r *fakeEquipmentRepo) GetEquipments(_ context.Context, _ types.Filter) ([]entities.Equipment, uint64, error) {
	return nil, 0, nil
}

func (r *fakeEquipmentRepo) FindEquipment(_ context.Context, id uint64) (*entities.Equipment, error) {
	return r.find(id)
}

func (r *fakeEquipmentRepo) FindEquipmentTx(_ context.Context, _ pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.find(id)
}

func (r *fakeEquipmentRepo) CreateEquipment(_ context.Context, _ dto.CreateEquipmentDTO) (uint64, error) {
	return 0, nil
}

func (r *fakeEquipmentRepo) UpdateEquipment(_ context.Context, _ uint64, _ dto.UpdateEquipmentDTO) error {
	return nil
}

func (r *fakeEquipmentRepo) SoftDeleteEquipment(_ context.Context, _ uint64) error { return nil }

func (r *fakeEquipmentRepo) GetSkillRequirements(_ context.Context, _ uint64) ([]entities.EquipmentSkillRequirement, error) {
	return nil, nil
}

func (r *fakeEquipmentRepo) SetSkillRequirements(_ context.Context, _ pgx.Tx, _ uint64, _ []entities.EquipmentSkillRequirement) error {
	return nil
}

type fakeWorkOrderRepo struct {
	rows map[uint64]entities.WorkOrder
}

func (r *fakeWorkOrderRepo) GetWorkOrders(_ context.Context, _ types.Filter) ([]entities.WorkOrder, uint64, error) {
	return nil, 0, nil
}

func (r *fakeWorkOrderRepo) FindWorkOrder(_ context.Context, id uint64) (*entities.WorkOrder, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &row, nil
}

func (r *fakeWorkOrderRepo) CreateWorkOrder(_ context.Context, _ entities.WorkOrder) (uint64, error) {
	return 0, nil
}
func (r *fakeWorkOrderRepo) UpdateWorkOrder(_ context.Context, _ entities.WorkOrder) error {
	return nil
}
func (r *fakeWorkOrderRepo) SetAssignee(_ context.Context, _, _ uint64) error      { return nil }
func (r *fakeWorkOrderRepo) SoftDeleteWorkOrder(_ context.Context, _ uint64) error { return nil }
func (r *fakeWorkOrderRepo) NextNumber(_ context.Context) (string, error)          { return "WO-2026-000001", nil }
func (r *fakeWorkOrderRepo) GetOpenOrders(_ context.Context) ([]entities.WorkOrder, error) {
	return nil, nil
}
func (r *fakeWorkOrderRepo) UpdatePriorityScores(_ context.Context, _ map[uint64]int) error {
	return nil
}

func newReservationFixture(equipments ...entities.Equipment) (ReservationServiceInterface, *fakeReservationRepo) {
	resRepo := newFakeReservationRepo()
	equipRepo := &fakeEquipmentRepo{rows: make(map[uint64]entities.Equipment)}
	for _, e := range equipments {
		equipRepo.rows[e.ID] = e
	}
	svc := NewReservationService(
		resRepo,
		equipRepo,
		&fakeWorkOrderRepo{rows: map[uint64]entities.WorkOrder{}},
		fakeTxManager{},
		scheduling.NewLockRegistry(),
		zap.NewNop(),
	)
	return svc, resRepo
}

func rfc(hour int) string {
	return time.Date(2026, 4, 1, hour, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func intPtr(v int) *int { return &v }

func TestCreateReservation_Exclusive(t *testing.T) {
	svc, _ := newReservationFixture(entities.Equipment{ID: 1, Name: "Mass Spectrometer", Exclusive: true})
	ctx := context.Background()

	first, err := svc.CreateReservation(ctx, 42, dto.CreateReservationDTO{
		EquipmentID: 1, StartsAt: rfc(9), EndsAt: rfc(11),
	})
	require.NoError(t, err)
	assert.Equal(t, scheduling.StatusScheduled, first.Status)
	assert.Equal(t, uint64(42), first.CreatedBy)
	assert.Equal(t, 1, first.CapacityConsumed)

	_, err = svc.CreateReservation(ctx, 42, dto.CreateReservationDTO{
		EquipmentID: 1, StartsAt: rfc(10), EndsAt: rfc(12),
	})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)
	details, ok := httpErr.Details.(dto.ConflictDetailsDTO)
	require.True(t, ok)
	assert.Equal(t, "exclusive_conflict", details.Reason)
	assert.Equal(t, []uint64{first.ID}, details.ConflictIDs)

	// Back to back is allowed, the interval is half-open.
	_, err = svc.CreateReservation(ctx, 42, dto.CreateReservationDTO{
		EquipmentID: 1, StartsAt: rfc(11), EndsAt: rfc(13),
	})
	assert.NoError(t, err)
}

func TestCreateReservation_BadInput(t *testing.T) {
	svc, _ := newReservationFixture(entities.Equipment{ID: 1, Exclusive: true})
	ctx := context.Background()

	t.Run("inverted interval", func(t *testing.T) {
		_, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
			EquipmentID: 1, StartsAt: rfc(12), EndsAt: rfc(10),
		})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Code)
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		_, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
			EquipmentID: 1, StartsAt: "tomorrow", EndsAt: rfc(10),
		})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Code)
	})

	t.Run("unknown equipment", func(t *testing.T) {
		_, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
			EquipmentID: 99, StartsAt: rfc(9), EndsAt: rfc(10),
		})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 404, httpErr.Code)
	})

	t.Run("unknown work order", func(t *testing.T) {
		missing := uint64(77)
		_, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
			EquipmentID: 1, StartsAt: rfc(9), EndsAt: rfc(10), WorkOrderID: &missing,
		})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Code)
	})
}

func TestCreateReservation_ConcurrencyLimit(t *testing.T) {
	svc, _ := newReservationFixture(entities.Equipment{ID: 2, ConcurrencyLimit: intPtr(2)})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
			EquipmentID: 2, StartsAt: rfc(9), EndsAt: rfc(12),
		})
		require.NoError(t, err)
	}

	_, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
		EquipmentID: 2, StartsAt: rfc(10), EndsAt: rfc(11),
	})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)
	details := httpErr.Details.(dto.ConflictDetailsDTO)
	assert.Equal(t, "concurrency_limit_exceeded", details.Reason)
	assert.Equal(t, 2, details.Limit)
	assert.Equal(t, 3, details.Attempted)
}

func TestCreateReservation_Capacity(t *testing.T) {
	svc, _ := newReservationFixture(entities.Equipment{ID: 3, ConcurrencyLimit: intPtr(10), Capacity: intPtr(20)})
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
		EquipmentID: 3, StartsAt: rfc(9), EndsAt: rfc(12), CapacityConsumed: 15,
	})
	require.NoError(t, err)

	_, err = svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
		EquipmentID: 3, StartsAt: rfc(10), EndsAt: rfc(11), CapacityConsumed: 6,
	})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)
	details := httpErr.Details.(dto.ConflictDetailsDTO)
	assert.Equal(t, "capacity_exceeded", details.Reason)
	assert.Equal(t, 20, details.Capacity)
	assert.Equal(t, 15, details.Used)
	assert.Equal(t, 6, details.Requested)

	// Exactly filling the tank is fine.
	_, err = svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
		EquipmentID: 3, StartsAt: rfc(10), EndsAt: rfc(11), CapacityConsumed: 5,
	})
	assert.NoError(t, err)
}

func TestCreateReservation_Race(t *testing.T) {
	svc, repo := newReservationFixture(entities.Equipment{ID: 1, Exclusive: true})
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
				EquipmentID: 1, StartsAt: rfc(9), EndsAt: rfc(10),
			})
			if err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted, "exactly one racing request may win the slot")
	assert.Len(t, repo.rows, 1)
}

func TestTransitionReservation(t *testing.T) {
	svc, _ := newReservationFixture(entities.Equipment{ID: 1, Exclusive: true})
	ctx := context.Background()

	created, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
		EquipmentID: 1, StartsAt: rfc(9), EndsAt: rfc(10),
	})
	require.NoError(t, err)

	updated, err := svc.TransitionReservation(ctx, created.ID, dto.TransitionReservationDTO{Status: "in_progress"})
	require.NoError(t, err)
	assert.Equal(t, scheduling.StatusInProgress, updated.Status)

	updated, err = svc.TransitionReservation(ctx, created.ID, dto.TransitionReservationDTO{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, scheduling.StatusCompleted, updated.Status)

	_, err = svc.TransitionReservation(ctx, created.ID, dto.TransitionReservationDTO{Status: "cancelled"})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)

	_, err = svc.TransitionReservation(ctx, created.ID, dto.TransitionReservationDTO{Status: "paused"})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)

	_, err = svc.TransitionReservation(ctx, 999, dto.TransitionReservationDTO{Status: "cancelled"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRescheduleReservation(t *testing.T) {
	svc, _ := newReservationFixture(entities.Equipment{ID: 1, Exclusive: true})
	ctx := context.Background()

	a, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
		EquipmentID: 1, StartsAt: rfc(9), EndsAt: rfc(10),
	})
	require.NoError(t, err)
	b, err := svc.CreateReservation(ctx, 1, dto.CreateReservationDTO{
		EquipmentID: 1, StartsAt: rfc(11), EndsAt: rfc(12),
	})
	require.NoError(t, err)

	t.Run("does not conflict with itself", func(t *testing.T) {
		moved, err := svc.RescheduleReservation(ctx, a.ID, dto.RescheduleReservationDTO{
			StartsAt: rfc(9), EndsAt: rfc(11),
		})
		require.NoError(t, err)
		assert.Equal(t, rfc(11), moved.EndsAt.Format(time.RFC3339))
	})

	t.Run("conflicts with its neighbour", func(t *testing.T) {
		_, err := svc.RescheduleReservation(ctx, a.ID, dto.RescheduleReservationDTO{
			StartsAt: rfc(10), EndsAt: rfc(12),
		})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 409, httpErr.Code)
		details := httpErr.Details.(dto.ConflictDetailsDTO)
		assert.Equal(t, []uint64{b.ID}, details.ConflictIDs)
	})

	t.Run("cancelled reservation cannot move", func(t *testing.T) {
		_, err := svc.TransitionReservation(ctx, b.ID, dto.TransitionReservationDTO{Status: "cancelled"})
		require.NoError(t, err)

		_, err = svc.RescheduleReservation(ctx, b.ID, dto.RescheduleReservationDTO{
			StartsAt: rfc(14), EndsAt: rfc(15),
		})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 409, httpErr.Code)
	})
}
