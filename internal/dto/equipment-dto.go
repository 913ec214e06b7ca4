package dto

import "github.com/aarondl/null/v8"

// CreateEquipmentDTO declares the scheduling mode at provisioning time:
// either exclusive use, or a concurrency limit (>= 1) with an optional
// total slot capacity.
type CreateEquipmentDTO struct {
	Name             string  `json:"name" validate:"required,min=2"`
	SerialNumber     string  `json:"serial_number"`
	LaboratoryID     *uint64 `json:"laboratory_id"`
	Exclusive        bool    `json:"exclusive"`
	ConcurrencyLimit *int    `json:"concurrency_limit" validate:"omitempty,gte=1"`
	Capacity         *int    `json:"capacity" validate:"omitempty,gte=1"`
}

type UpdateEquipmentDTO struct {
	Name             null.String `json:"name"`
	SerialNumber     null.String `json:"serial_number"`
	LaboratoryID     null.Uint64 `json:"laboratory_id"`
	Exclusive        null.Bool   `json:"exclusive"`
	ConcurrencyLimit null.Int    `json:"concurrency_limit"`
	Capacity         null.Int    `json:"capacity"`
}

type SkillRequirementDTO struct {
	SkillID               uint64 `json:"skill_id" validate:"required"`
	MinimumProficiency    string `json:"minimum_proficiency" validate:"required,oneof=beginner intermediate advanced expert"`
	CertificationRequired bool   `json:"certification_required"`
}

type SetSkillRequirementsDTO struct {
	Requirements []SkillRequirementDTO `json:"requirements" validate:"required,dive"`
}

type UpsertTechnicianSkillDTO struct {
	UserID              uint64  `json:"user_id" validate:"required"`
	SkillID             uint64  `json:"skill_id" validate:"required"`
	Proficiency         string  `json:"proficiency" validate:"required,oneof=beginner intermediate advanced expert"`
	IsCertified         bool    `json:"is_certified"`
	CertificationExpiry *string `json:"certification_expiry" validate:"omitempty,datetime=2006-01-02"`
}

// CandidateDTO is one entry of the ranked technician list for a piece of
// equipment.
type CandidateDTO struct {
	UserID   uint64 `json:"user_id"`
	FullName string `json:"full_name"`
	Score    int    `json:"score"`
	Workload int    `json:"workload"`
}
