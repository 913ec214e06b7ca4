package dto

// CreateReservationDTO proposes a new claim on equipment over
// [starts_at, ends_at). Timestamps are RFC 3339.
type CreateReservationDTO struct {
	EquipmentID      uint64  `json:"equipment_id" validate:"required"`
	StartsAt         string  `json:"starts_at" validate:"required"`
	EndsAt           string  `json:"ends_at" validate:"required"`
	CapacityConsumed int     `json:"capacity_consumed" validate:"omitempty,gte=1"`
	WorkOrderID      *uint64 `json:"work_order_id"`
	TechnicianID     *uint64 `json:"technician_id"`
	Notes            string  `json:"notes"`
}

type TransitionReservationDTO struct {
	Status string `json:"status" validate:"required,oneof=scheduled in_progress completed cancelled"`
}

// RescheduleReservationDTO moves an existing reservation to a new interval.
// The proposal is checked against every active reservation except the one
// being moved.
type RescheduleReservationDTO struct {
	StartsAt string `json:"starts_at" validate:"required"`
	EndsAt   string `json:"ends_at" validate:"required"`
}

// ConflictDetailsDTO is the body attached to 409 responses.
type ConflictDetailsDTO struct {
	Reason      string   `json:"reason"`
	ConflictIDs []uint64 `json:"conflict_ids,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	Attempted   int      `json:"attempted,omitempty"`
	Capacity    int      `json:"capacity,omitempty"`
	Used        int      `json:"used,omitempty"`
	Requested   int      `json:"requested,omitempty"`
}
