package entities

import (
	"time"

	"lab-system/internal/scheduling"
)

type Equipment struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	SerialNumber string  `json:"serial_number,omitempty"`
	LaboratoryID *uint64 `json:"laboratory_id,omitempty"`

	// Exclusive equipment admits one active reservation at a time;
	// otherwise ConcurrencyLimit bounds simultaneous reservations and
	// Capacity, when set, bounds the summed slot consumption.
	Exclusive        bool `json:"exclusive"`
	ConcurrencyLimit *int `json:"concurrency_limit,omitempty"`
	Capacity         *int `json:"capacity,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// SchedulingResource converts the equipment row to the admission checker's
// resource view.
func (e *Equipment) SchedulingResource() scheduling.Resource {
	return scheduling.Resource{
		ID:               e.ID,
		Exclusive:        e.Exclusive,
		ConcurrencyLimit: e.ConcurrencyLimit,
		Capacity:         e.Capacity,
	}
}
