package dto

import "github.com/aarondl/null/v8"

type CreateWorkOrderDTO struct {
	Title          string  `json:"title" validate:"required,min=3"`
	Description    string  `json:"description"`
	ClientID       *uint64 `json:"client_id"`
	LaboratoryID   *uint64 `json:"laboratory_id"`
	SourceCategory string  `json:"source_category" validate:"omitempty,oneof=field_return production qualification internal"`
	SLADueAt       *string `json:"sla_due_at" validate:"omitempty"`
}

type UpdateWorkOrderDTO struct {
	Title          null.String `json:"title"`
	Description    null.String `json:"description"`
	ClientID       null.Uint64 `json:"client_id"`
	LaboratoryID   null.Uint64 `json:"laboratory_id"`
	Status         null.String `json:"status" validate:"omitempty,oneof=open in_progress on_hold completed cancelled"`
	SourceCategory null.String `json:"source_category"`
	SLADueAt       null.String `json:"sla_due_at"`
}

type AssignWorkOrderDTO struct {
	AssigneeID  uint64  `json:"assignee_id" validate:"required"`
	EquipmentID *uint64 `json:"equipment_id"`
}
