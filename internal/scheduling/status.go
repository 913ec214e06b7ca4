package scheduling

import "fmt"

// ReservationStatus is a closed enum; the zero value is not a valid status.
type ReservationStatus string

const (
	StatusScheduled  ReservationStatus = "scheduled"
	StatusInProgress ReservationStatus = "in_progress"
	StatusCompleted  ReservationStatus = "completed"
	StatusCancelled  ReservationStatus = "cancelled"
)

func ParseStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(s) {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return ReservationStatus(s), nil
	}
	return "", fmt.Errorf("unknown reservation status %q", s)
}

// IsActive reports whether a reservation in this status occupies its
// resource. Completed and cancelled reservations are inert.
func (s ReservationStatus) IsActive() bool {
	switch s {
	case StatusScheduled, StatusInProgress:
		return true
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// CanTransitionTo encodes the lifecycle: scheduled -> in_progress ->
// completed, with cancellation allowed at any point before completion.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case StatusScheduled:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}
