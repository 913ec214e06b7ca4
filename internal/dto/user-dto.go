package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	FullName     string  `json:"full_name" validate:"required,min=2"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	Position     string  `json:"position" validate:"omitempty,max=128"`
	RoleID       uint64  `json:"role_id" validate:"required"`
	LaboratoryID *uint64 `json:"laboratory_id"`
}

type UpdateUserDTO struct {
	FullName     null.String `json:"full_name" validate:"omitempty"`
	Email        null.String `json:"email" validate:"omitempty"`
	Position     null.String `json:"position"`
	RoleID       null.Uint64 `json:"role_id"`
	LaboratoryID null.Uint64 `json:"laboratory_id"`
	IsActive     null.Bool   `json:"is_active"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}
