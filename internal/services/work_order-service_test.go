package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/pkg/config"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memWorkOrderRepo struct {
	mu      sync.Mutex
	nextID  uint64
	nextSeq int
	rows    map[uint64]entities.WorkOrder
}

func newMemWorkOrderRepo() *memWorkOrderRepo {
	return &memWorkOrderRepo{nextID: 1, nextSeq: 1, rows: make(map[uint64]entities.WorkOrder)}
}

func (r *memWorkOrderRepo) GetWorkOrders(_ context.Context, _ types.Filter) ([]entities.WorkOrder, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.WorkOrder, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, uint64(len(out)), nil
}

func (r *memWorkOrderRepo) FindWorkOrder(_ context.Context, id uint64) (*entities.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &row, nil
}

func (r *memWorkOrderRepo) CreateWorkOrder(_ context.Context, order entities.WorkOrder) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = r.nextID
	r.nextID++
	r.rows[order.ID] = order
	return order.ID, nil
}

func (r *memWorkOrderRepo) UpdateWorkOrder(_ context.Context, order entities.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[order.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.rows[order.ID] = order
	return nil
}

func (r *memWorkOrderRepo) SetAssignee(_ context.Context, id, assigneeID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	row.AssigneeID = &assigneeID
	row.Status = entities.WorkOrderInProgress
	r.rows[id] = row
	return nil
}

func (r *memWorkOrderRepo) SoftDeleteWorkOrder(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memWorkOrderRepo) NextNumber(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.nextSeq
	r.nextSeq++
	return fmt.Sprintf("WO-2026-%06d", n), nil
}

func (r *memWorkOrderRepo) GetOpenOrders(_ context.Context) ([]entities.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.WorkOrder
	for _, row := range r.rows {
		switch row.Status {
		case entities.WorkOrderOpen, entities.WorkOrderInProgress, entities.WorkOrderOnHold:
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memWorkOrderRepo) UpdatePriorityScores(_ context.Context, scores map[uint64]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, score := range scores {
		row, ok := r.rows[id]
		if !ok {
			continue
		}
		row.PriorityScore = score
		r.rows[id] = row
	}
	return nil
}

type fakeClientRepo struct {
	rows map[uint64]entities.Client
}

func (r *fakeClientRepo) GetClients(_ context.Context, _ types.Filter) ([]entities.Client, uint64, error) {
	return nil, 0, nil
}

func (r *fakeClientRepo) FindClient(_ context.Context, id uint64) (*entities.Client, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &row, nil
}

func (r *fakeClientRepo) CreateClient(_ context.Context, _ dto.CreateClientDTO) (uint64, error) {
	return 0, nil
}
func (r *fakeClientRepo) UpdateClient(_ context.Context, _ uint64, _ dto.UpdateClientDTO) error {
	return nil
}
func (r *fakeClientRepo) DeleteClient(_ context.Context, _ uint64) error { return nil }

type fakeUserRepo struct {
	rows map[uint64]entities.User
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _ types.Filter) ([]entities.User, uint64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) FindUserByID(_ context.Context, id uint64) (*entities.User, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &row, nil
}

func (r *fakeUserRepo) FindUserByEmail(_ context.Context, _ string) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}
func (r *fakeUserRepo) CreateUser(_ context.Context, _ entities.User) (uint64, error) { return 0, nil }
func (r *fakeUserRepo) UpdateUser(_ context.Context, _ uint64, _ dto.UpdateUserDTO) error {
	return nil
}
func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, _ uint64, _ string) error { return nil }
func (r *fakeUserRepo) SoftDeleteUser(_ context.Context, _ uint64) error               { return nil }

// stubMatcher qualifies exactly the users listed in qualified.
type stubMatcher struct {
	qualified map[uint64]bool
}

func (m *stubMatcher) GetCandidates(_ context.Context, _ uint64) ([]dto.CandidateDTO, error) {
	return nil, nil
}

func (m *stubMatcher) IsQualified(_ context.Context, userID, _ uint64) (bool, error) {
	return m.qualified[userID], nil
}

type workOrderFixture struct {
	svc     WorkOrderServiceInterface
	woRepo  *memWorkOrderRepo
	clients *fakeClientRepo
	users   *fakeUserRepo
	matcher *stubMatcher
}

func newWorkOrderFixture() *workOrderFixture {
	f := &workOrderFixture{
		woRepo:  newMemWorkOrderRepo(),
		clients: &fakeClientRepo{rows: make(map[uint64]entities.Client)},
		users:   &fakeUserRepo{rows: make(map[uint64]entities.User)},
		matcher: &stubMatcher{qualified: make(map[uint64]bool)},
	}
	f.svc = NewWorkOrderService(f.woRepo, f.clients, f.users, f.matcher, config.DefaultPriorityPolicy(), zap.NewNop())
	return f
}

func TestCreateWorkOrder(t *testing.T) {
	f := newWorkOrderFixture()
	f.clients.rows[5] = entities.Client{ID: 5, Name: "Acme", PriorityLevel: "critical"}
	ctx := context.Background()

	clientID := uint64(5)
	sla := time.Now().Add(6 * time.Hour).Format(time.RFC3339)
	order, err := f.svc.CreateWorkOrder(ctx, 9, dto.CreateWorkOrderDTO{
		Title:          "Calibrate spectrometer",
		ClientID:       &clientID,
		SourceCategory: "field_return",
		SLADueAt:       &sla,
	})
	require.NoError(t, err)
	assert.Equal(t, "WO-2026-000001", order.Number)
	assert.Equal(t, entities.WorkOrderOpen, order.Status)
	assert.Equal(t, uint64(9), order.CreatedBy)
	// 40 urgency (due within 24h) + 30 field_return + 30 critical client.
	assert.Equal(t, 100, order.PriorityScore)

	t.Run("defaults source category", func(t *testing.T) {
		order, err := f.svc.CreateWorkOrder(ctx, 9, dto.CreateWorkOrderDTO{Title: "Routine check"})
		require.NoError(t, err)
		assert.Equal(t, "internal", order.SourceCategory)
		assert.Equal(t, 5, order.PriorityScore)
	})

	t.Run("unknown client rejected", func(t *testing.T) {
		missing := uint64(404)
		_, err := f.svc.CreateWorkOrder(ctx, 9, dto.CreateWorkOrderDTO{Title: "Ghost client", ClientID: &missing})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Code)
	})

	t.Run("bad sla timestamp rejected", func(t *testing.T) {
		bad := "next friday"
		_, err := f.svc.CreateWorkOrder(ctx, 9, dto.CreateWorkOrderDTO{Title: "Bad deadline", SLADueAt: &bad})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Code)
	})
}

func TestAssignWorkOrder(t *testing.T) {
	f := newWorkOrderFixture()
	f.users.rows[10] = entities.User{ID: 10, FullName: "Qualified Tech", IsActive: true}
	f.users.rows[11] = entities.User{ID: 11, FullName: "Unqualified Tech", IsActive: true}
	f.users.rows[12] = entities.User{ID: 12, FullName: "Former Tech", IsActive: false}
	f.matcher.qualified[10] = true
	ctx := context.Background()

	order, err := f.svc.CreateWorkOrder(ctx, 1, dto.CreateWorkOrderDTO{Title: "Thermal analysis run"})
	require.NoError(t, err)
	equipmentID := uint64(3)

	t.Run("qualified assignee accepted", func(t *testing.T) {
		assigned, err := f.svc.AssignWorkOrder(ctx, order.ID, dto.AssignWorkOrderDTO{AssigneeID: 10, EquipmentID: &equipmentID})
		require.NoError(t, err)
		require.NotNil(t, assigned.AssigneeID)
		assert.Equal(t, uint64(10), *assigned.AssigneeID)
		assert.Equal(t, entities.WorkOrderInProgress, assigned.Status)
	})

	t.Run("unqualified assignee rejected", func(t *testing.T) {
		_, err := f.svc.AssignWorkOrder(ctx, order.ID, dto.AssignWorkOrderDTO{AssigneeID: 11, EquipmentID: &equipmentID})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 409, httpErr.Code)
	})

	t.Run("no equipment hint skips the skill gate", func(t *testing.T) {
		assigned, err := f.svc.AssignWorkOrder(ctx, order.ID, dto.AssignWorkOrderDTO{AssigneeID: 11})
		require.NoError(t, err)
		assert.Equal(t, uint64(11), *assigned.AssigneeID)
	})

	t.Run("inactive assignee rejected", func(t *testing.T) {
		_, err := f.svc.AssignWorkOrder(ctx, order.ID, dto.AssignWorkOrderDTO{AssigneeID: 12})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Code)
	})

	t.Run("closed order cannot be assigned", func(t *testing.T) {
		closed, err := f.svc.CreateWorkOrder(ctx, 1, dto.CreateWorkOrderDTO{Title: "Finished job"})
		require.NoError(t, err)
		closed.Status = entities.WorkOrderCompleted
		require.NoError(t, f.woRepo.UpdateWorkOrder(ctx, *closed))

		_, err = f.svc.AssignWorkOrder(ctx, closed.ID, dto.AssignWorkOrderDTO{AssigneeID: 10})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 409, httpErr.Code)
	})
}

func TestUpdateWorkOrder_ClosedGuard(t *testing.T) {
	f := newWorkOrderFixture()
	ctx := context.Background()

	order, err := f.svc.CreateWorkOrder(ctx, 1, dto.CreateWorkOrderDTO{Title: "One-shot job"})
	require.NoError(t, err)

	completed, err := f.svc.UpdateWorkOrder(ctx, order.ID, dto.UpdateWorkOrderDTO{
		Status: null.StringFrom("completed"),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.WorkOrderCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	_, err = f.svc.UpdateWorkOrder(ctx, order.ID, dto.UpdateWorkOrderDTO{
		Status: null.StringFrom("open"),
	})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)
}

func TestRecalculatePriorities(t *testing.T) {
	f := newWorkOrderFixture()
	f.clients.rows[5] = entities.Client{ID: 5, PriorityLevel: "high"}
	ctx := context.Background()

	clientID := uint64(5)
	sla := time.Now().Add(30 * time.Hour).Format(time.RFC3339)
	order, err := f.svc.CreateWorkOrder(ctx, 1, dto.CreateWorkOrderDTO{
		Title:    "Aging deadline",
		ClientID: &clientID,
		SLADueAt: &sla,
	})
	require.NoError(t, err)
	// Due in 30h: 25 urgency + 5 internal + 20 high client.
	require.Equal(t, 50, order.PriorityScore)

	// Simulate the deadline creeping inside the 24h band.
	stored, err := f.woRepo.FindWorkOrder(ctx, order.ID)
	require.NoError(t, err)
	soon := time.Now().Add(2 * time.Hour)
	stored.SLADueAt = &soon
	require.NoError(t, f.woRepo.UpdateWorkOrder(ctx, *stored))

	updated, err := f.svc.RecalculatePriorities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	refreshed, err := f.woRepo.FindWorkOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 65, refreshed.PriorityScore)

	// A second pass finds nothing to change.
	updated, err = f.svc.RecalculatePriorities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}
