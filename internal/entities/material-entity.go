package entities

import "time"

type Material struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	Quantity     float64   `json:"quantity"`
	MinQuantity  float64   `json:"min_quantity"`
	LaboratoryID *uint64   `json:"laboratory_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MaterialMovement is one stock adjustment, positive for intake and
// negative for consumption.
type MaterialMovement struct {
	ID         uint64    `json:"id"`
	MaterialID uint64    `json:"material_id"`
	Delta      float64   `json:"delta"`
	Reason     string    `json:"reason,omitempty"`
	CreatedBy  uint64    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}
