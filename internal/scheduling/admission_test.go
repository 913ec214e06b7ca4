package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory IntervalStore used by the checker tests and by
// the concurrent-admission test.
type memStore struct {
	mu           sync.Mutex
	nextID       uint64
	reservations []Reservation
}

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (s *memStore) ActiveOverlapping(_ context.Context, resourceID uint64, iv Interval, excludeID *uint64) ([]Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Reservation
	for _, r := range s.reservations {
		if r.ResourceID != resourceID || !r.Status.IsActive() {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if r.Interval.Overlaps(iv) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) insert(resourceID uint64, iv Interval, status ReservationStatus, consumed int) Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := Reservation{
		ID:               s.nextID,
		ResourceID:       resourceID,
		Interval:         iv,
		Status:           status,
		CapacityConsumed: consumed,
	}
	s.nextID++
	s.reservations = append(s.reservations, r)
	return r
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func between(h1, m1, h2, m2 int) Interval {
	return Interval{Start: at(h1, m1), End: at(h2, m2)}
}

func TestTryAdmit_InvalidInterval(t *testing.T) {
	store := newMemStore()
	checker := NewChecker(store)
	oven := Resource{ID: 1, Exclusive: true}

	err := checker.TryAdmit(context.Background(), AdmitRequest{
		Resource: oven,
		Interval: Interval{Start: at(10, 0), End: at(10, 0)},
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	err = checker.TryAdmit(context.Background(), AdmitRequest{
		Resource: oven,
		Interval: Interval{Start: at(11, 0), End: at(10, 0)},
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.Empty(t, store.reservations, "a rejected request must not change state")
}

func TestTryAdmit_Exclusive(t *testing.T) {
	store := newMemStore()
	checker := NewChecker(store)
	oven := Resource{ID: 1, Exclusive: true}

	a := store.insert(oven.ID, between(9, 0, 10, 0), StatusScheduled, 1)

	t.Run("overlap rejected", func(t *testing.T) {
		err := checker.TryAdmit(context.Background(), AdmitRequest{
			Resource: oven,
			Interval: between(9, 30, 10, 30),
		})
		var conflict *ExclusiveConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []uint64{a.ID}, conflict.ConflictIDs)
	})

	t.Run("touching boundary admitted", func(t *testing.T) {
		err := checker.TryAdmit(context.Background(), AdmitRequest{
			Resource: oven,
			Interval: between(10, 0, 11, 0),
		})
		assert.NoError(t, err)
	})

	t.Run("cancelled reservation does not conflict", func(t *testing.T) {
		store.insert(oven.ID, between(12, 0, 13, 0), StatusCancelled, 1)
		err := checker.TryAdmit(context.Background(), AdmitRequest{
			Resource: oven,
			Interval: between(12, 0, 13, 0),
		})
		assert.NoError(t, err)
	})

	t.Run("in-progress reservation conflicts", func(t *testing.T) {
		store.insert(oven.ID, between(14, 0, 15, 0), StatusInProgress, 1)
		err := checker.TryAdmit(context.Background(), AdmitRequest{
			Resource: oven,
			Interval: between(14, 30, 15, 30),
		})
		var conflict *ExclusiveConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestTryAdmit_ConcurrencyLimit(t *testing.T) {
	store := newMemStore()
	checker := NewChecker(store)
	limit := 3
	rig := Resource{ID: 2, ConcurrencyLimit: &limit}

	for i := 0; i < 3; i++ {
		store.insert(rig.ID, between(14, 0, 16, 0), StatusScheduled, 1)
	}

	err := checker.TryAdmit(context.Background(), AdmitRequest{
		Resource: rig,
		Interval: between(15, 0, 17, 0),
	})
	var limErr *ConcurrencyLimitError
	require.ErrorAs(t, err, &limErr)
	assert.Equal(t, 3, limErr.Limit)
	assert.Equal(t, 4, limErr.Attempted)

	// A non-overlapping fourth reservation is fine.
	err = checker.TryAdmit(context.Background(), AdmitRequest{
		Resource: rig,
		Interval: between(16, 0, 17, 0),
	})
	assert.NoError(t, err)
}

func TestTryAdmit_Capacity(t *testing.T) {
	store := newMemStore()
	checker := NewChecker(store)
	capTotal := 20
	furnace := Resource{ID: 3, Capacity: &capTotal}

	store.insert(furnace.ID, between(14, 0, 15, 0), StatusScheduled, 12)
	store.insert(furnace.ID, between(13, 0, 16, 0), StatusInProgress, 6)

	t.Run("over capacity rejected", func(t *testing.T) {
		err := checker.TryAdmit(context.Background(), AdmitRequest{
			Resource:         furnace,
			Interval:         between(14, 30, 14, 45),
			CapacityConsumed: 3,
		})
		var capErr *CapacityExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 20, capErr.Capacity)
		assert.Equal(t, 18, capErr.Used)
		assert.Equal(t, 3, capErr.Requested)
	})

	t.Run("fills to exactly capacity", func(t *testing.T) {
		err := checker.TryAdmit(context.Background(), AdmitRequest{
			Resource:         furnace,
			Interval:         between(14, 30, 14, 45),
			CapacityConsumed: 2,
		})
		assert.NoError(t, err)
	})

	t.Run("unset consumption defaults to one", func(t *testing.T) {
		store.insert(furnace.ID, between(18, 0, 19, 0), StatusScheduled, 0)
		err := checker.TryAdmit(context.Background(), AdmitRequest{
			Resource:         furnace,
			Interval:         between(18, 0, 19, 0),
			CapacityConsumed: 19,
		})
		assert.NoError(t, err)

		err = checker.TryAdmit(context.Background(), AdmitRequest{
			Resource:         furnace,
			Interval:         between(18, 0, 19, 0),
			CapacityConsumed: 20,
		})
		assert.Error(t, err)
	})
}

func TestTryAdmit_ExcludeSelf(t *testing.T) {
	store := newMemStore()
	checker := NewChecker(store)
	oven := Resource{ID: 1, Exclusive: true}

	r := store.insert(oven.ID, between(9, 0, 10, 0), StatusScheduled, 1)

	// A reservation never conflicts with itself.
	err := checker.TryAdmit(context.Background(), AdmitRequest{
		Resource:  oven,
		Interval:  r.Interval,
		ExcludeID: &r.ID,
	})
	assert.NoError(t, err)

	err = checker.TryAdmit(context.Background(), AdmitRequest{
		Resource: oven,
		Interval: r.Interval,
	})
	assert.Error(t, err)
}

// TestConcurrentAdmission drives racing admission attempts through the lock
// registry: out of N racing requests for the same exclusive slot, exactly one
// may commit.
func TestConcurrentAdmission(t *testing.T) {
	store := newMemStore()
	checker := NewChecker(store)
	locks := NewLockRegistry()
	oven := Resource{ID: 7, Exclusive: true}
	slot := between(9, 0, 10, 0)

	const attempts = 32
	var wg sync.WaitGroup
	admitted := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(oven.ID)
			defer unlock()
			if err := checker.TryAdmit(context.Background(), AdmitRequest{Resource: oven, Interval: slot}); err == nil {
				store.insert(oven.ID, slot, StatusScheduled, 1)
				admitted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for range admitted {
		count++
	}
	assert.Equal(t, 1, count, "exactly one racing request may be admitted")
	assert.Len(t, store.reservations, 1)
}

func TestOverlapSemantics(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", between(9, 0, 10, 0), between(9, 0, 10, 0), true},
		{"partial", between(9, 0, 10, 0), between(9, 30, 10, 30), true},
		{"contained", between(9, 0, 12, 0), between(10, 0, 11, 0), true},
		{"touching end-start", between(9, 0, 10, 0), between(10, 0, 11, 0), false},
		{"touching start-end", between(10, 0, 11, 0), between(9, 0, 10, 0), false},
		{"disjoint", between(9, 0, 10, 0), between(11, 0, 12, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusScheduled.CanTransitionTo(StatusInProgress))
	assert.True(t, StatusScheduled.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusScheduled.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusInProgress.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusInProgress.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusScheduled))

	assert.True(t, StatusScheduled.IsActive())
	assert.True(t, StatusInProgress.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	_, err = ParseStatus("paused")
	assert.Error(t, err)
}
