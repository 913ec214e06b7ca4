package entities

import (
	"time"

	"lab-system/internal/scheduling"
)

type Reservation struct {
	ID               uint64                       `json:"id"`
	EquipmentID      uint64                       `json:"equipment_id"`
	WorkOrderID      *uint64                      `json:"work_order_id,omitempty"`
	TechnicianID     *uint64                      `json:"technician_id,omitempty"`
	StartsAt         time.Time                    `json:"starts_at"`
	EndsAt           time.Time                    `json:"ends_at"`
	Status           scheduling.ReservationStatus `json:"status"`
	CapacityConsumed int                          `json:"capacity_consumed"`
	Notes            string                       `json:"notes,omitempty"`
	CreatedBy        uint64                       `json:"created_by"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

func (r *Reservation) Interval() scheduling.Interval {
	return scheduling.Interval{Start: r.StartsAt, End: r.EndsAt}
}

// SchedulingView converts the row to the admission checker's reservation
// view.
func (r *Reservation) SchedulingView() scheduling.Reservation {
	return scheduling.Reservation{
		ID:               r.ID,
		ResourceID:       r.EquipmentID,
		Interval:         r.Interval(),
		Status:           r.Status,
		CapacityConsumed: r.CapacityConsumed,
	}
}
