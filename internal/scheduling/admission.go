package scheduling

import "context"

// Resource is the scheduling view of a piece of equipment. Exclusive
// equipment admits at most one active reservation at any instant;
// otherwise ConcurrencyLimit bounds the number of simultaneous
// reservations and Capacity, when set, bounds the summed slot consumption.
type Resource struct {
	ID               uint64
	Exclusive        bool
	ConcurrencyLimit *int
	Capacity         *int
}

// Reservation is the scheduling view of a committed claim on a resource.
type Reservation struct {
	ID               uint64
	ResourceID       uint64
	Interval         Interval
	Status           ReservationStatus
	CapacityConsumed int
}

// IntervalStore retrieves the active (scheduled or in-progress)
// reservations of a resource overlapping a query interval, optionally
// excluding one reservation id so a reservation can be re-validated
// against everything but itself.
type IntervalStore interface {
	ActiveOverlapping(ctx context.Context, resourceID uint64, iv Interval, excludeID *uint64) ([]Reservation, error)
}

// AdmitRequest is a proposed reservation to be checked for admission.
type AdmitRequest struct {
	Resource         Resource
	Interval         Interval
	CapacityConsumed int
	ExcludeID        *uint64
}

// Checker decides whether proposed reservations may be admitted. It is a
// pure decision component: it never writes, and the caller must hold the
// resource's admission lock across the check and the subsequent insert.
type Checker struct {
	store IntervalStore
}

func NewChecker(store IntervalStore) *Checker {
	return &Checker{store: store}
}

// TryAdmit returns nil when the proposed reservation may be committed, or
// one of ErrInvalidInterval, *ExclusiveConflictError,
// *ConcurrencyLimitError, *CapacityExceededError.
func (c *Checker) TryAdmit(ctx context.Context, req AdmitRequest) error {
	if !req.Interval.Valid() {
		return ErrInvalidInterval
	}
	if req.CapacityConsumed <= 0 {
		req.CapacityConsumed = 1
	}

	overlapping, err := c.store.ActiveOverlapping(ctx, req.Resource.ID, req.Interval, req.ExcludeID)
	if err != nil {
		return err
	}
	if len(overlapping) == 0 {
		return nil
	}

	if req.Resource.Exclusive {
		ids := make([]uint64, 0, len(overlapping))
		for _, r := range overlapping {
			ids = append(ids, r.ID)
		}
		return &ExclusiveConflictError{ResourceID: req.Resource.ID, ConflictIDs: ids}
	}

	if req.Resource.ConcurrencyLimit != nil {
		attempted := len(overlapping) + 1
		if attempted > *req.Resource.ConcurrencyLimit {
			return &ConcurrencyLimitError{
				ResourceID: req.Resource.ID,
				Limit:      *req.Resource.ConcurrencyLimit,
				Attempted:  attempted,
			}
		}
	}

	if req.Resource.Capacity != nil {
		used := CapacityUsage(overlapping)
		if used+req.CapacityConsumed > *req.Resource.Capacity {
			return &CapacityExceededError{
				ResourceID: req.Resource.ID,
				Capacity:   *req.Resource.Capacity,
				Used:       used,
				Requested:  req.CapacityConsumed,
			}
		}
	}

	return nil
}

// CapacityUsage sums the slot consumption of a set of reservations,
// counting an unset consumption as 1.
func CapacityUsage(reservations []Reservation) int {
	used := 0
	for _, r := range reservations {
		if r.CapacityConsumed > 0 {
			used += r.CapacityConsumed
		} else {
			used++
		}
	}
	return used
}
