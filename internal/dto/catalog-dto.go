package dto

import "github.com/aarondl/null/v8"

// Catalog DTOs: roles, clients, laboratories, skills, materials.

type CreateRoleDTO struct {
	Name        string `json:"name" validate:"required,min=2"`
	Code        string `json:"code" validate:"required,min=2,max=64"`
	Description string `json:"description"`
}

type UpdateRoleDTO struct {
	Name        null.String `json:"name"`
	Description null.String `json:"description"`
}

type SetRolePermissionsDTO struct {
	PermissionIDs []uint64 `json:"permission_ids" validate:"required"`
}

type CreateClientDTO struct {
	Name          string `json:"name" validate:"required,min=2"`
	ContactEmail  string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone  string `json:"contact_phone"`
	PriorityLevel string `json:"priority_level" validate:"omitempty,oneof=critical high normal low"`
}

type UpdateClientDTO struct {
	Name          null.String `json:"name"`
	ContactEmail  null.String `json:"contact_email"`
	ContactPhone  null.String `json:"contact_phone"`
	PriorityLevel null.String `json:"priority_level"`
}

type CreateLaboratoryDTO struct {
	Name    string `json:"name" validate:"required,min=2"`
	Site    string `json:"site"`
	Address string `json:"address"`
}

type UpdateLaboratoryDTO struct {
	Name    null.String `json:"name"`
	Site    null.String `json:"site"`
	Address null.String `json:"address"`
}

type CreateSkillDTO struct {
	Name     string `json:"name" validate:"required,min=2"`
	Category string `json:"category"`
}

type UpdateSkillDTO struct {
	Name     null.String `json:"name"`
	Category null.String `json:"category"`
}

type CreateMaterialDTO struct {
	Name         string  `json:"name" validate:"required,min=2"`
	Unit         string  `json:"unit" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	MinQuantity  float64 `json:"min_quantity" validate:"gte=0"`
	LaboratoryID *uint64 `json:"laboratory_id"`
}

type UpdateMaterialDTO struct {
	Name        null.String  `json:"name"`
	Unit        null.String  `json:"unit"`
	MinQuantity null.Float64 `json:"min_quantity"`
}

type AdjustStockDTO struct {
	Delta  float64 `json:"delta" validate:"required"`
	Reason string  `json:"reason" validate:"required,min=3"`
}
