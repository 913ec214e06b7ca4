package scheduling

import "sync"

// LockRegistry hands out one mutex per resource id. The reservation
// service holds the resource's lock across the admission check and the
// insert so two concurrent requests cannot both observe "no conflict" and
// both commit overlapping reservations.
//
// Locks are never evicted; the registry grows with the number of distinct
// resources, which is bounded by the equipment inventory.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[uint64]*sync.Mutex)}
}

func (r *LockRegistry) lockFor(resourceID uint64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[resourceID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[resourceID] = l
	}
	return l
}

// Lock acquires the admission lock of a resource and returns the unlock
// function.
func (r *LockRegistry) Lock(resourceID uint64) func() {
	l := r.lockFor(resourceID)
	l.Lock()
	return l.Unlock
}
