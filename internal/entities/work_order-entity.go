package entities

import "time"

type WorkOrderStatus string

const (
	WorkOrderOpen       WorkOrderStatus = "open"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderOnHold     WorkOrderStatus = "on_hold"
	WorkOrderCompleted  WorkOrderStatus = "completed"
	WorkOrderCancelled  WorkOrderStatus = "cancelled"
)

type WorkOrder struct {
	ID             uint64          `json:"id"`
	Number         string          `json:"number"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	ClientID       *uint64         `json:"client_id,omitempty"`
	LaboratoryID   *uint64         `json:"laboratory_id,omitempty"`
	Status         WorkOrderStatus `json:"status"`
	SourceCategory string          `json:"source_category"`
	SLADueAt       *time.Time      `json:"sla_due_at,omitempty"`
	PriorityScore  int             `json:"priority_score"`
	AssigneeID     *uint64         `json:"assignee_id,omitempty"`
	CreatedBy      uint64          `json:"created_by"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"-"`
}
