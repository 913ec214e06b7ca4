package entities

import "time"

type User struct {
	ID           uint64     `json:"id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Position     string     `json:"position"`
	RoleID       uint64     `json:"role_id"`
	LaboratoryID *uint64    `json:"laboratory_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}
