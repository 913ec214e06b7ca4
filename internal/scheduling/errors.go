package scheduling

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInterval is returned when a proposed interval has
	// start >= end. The request is rejected before any store access.
	ErrInvalidInterval = errors.New("reservation interval start must be before end")

	// ErrResourceNotFound is returned when the referenced equipment does
	// not exist.
	ErrResourceNotFound = errors.New("equipment not found")

	// ErrResourceInUse is returned when deleting equipment that still has
	// active reservations.
	ErrResourceInUse = errors.New("equipment has active reservations")
)

// ExclusiveConflictError reports a temporal overlap on exclusive-use
// equipment, carrying the conflicting reservation ids for diagnostics.
type ExclusiveConflictError struct {
	ResourceID  uint64
	ConflictIDs []uint64
}

func (e *ExclusiveConflictError) Error() string {
	return fmt.Sprintf("equipment %d is exclusively reserved for the requested period (conflicts: %v)", e.ResourceID, e.ConflictIDs)
}

// ConcurrencyLimitError reports that admitting the proposed reservation
// would exceed the equipment's simultaneous-reservation ceiling.
type ConcurrencyLimitError struct {
	ResourceID uint64
	Limit      int
	Attempted  int
}

func (e *ConcurrencyLimitError) Error() string {
	return fmt.Sprintf("equipment %d allows %d concurrent reservations, attempted %d", e.ResourceID, e.Limit, e.Attempted)
}

// CapacityExceededError reports that the summed slot consumption over the
// proposed period would exceed the equipment's total capacity.
type CapacityExceededError struct {
	ResourceID uint64
	Capacity   int
	Used       int
	Requested  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("equipment %d capacity %d would be exceeded: %d in use, %d requested", e.ResourceID, e.Capacity, e.Used, e.Requested)
}
