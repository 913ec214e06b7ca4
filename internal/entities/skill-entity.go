package entities

import (
	"time"

	"lab-system/internal/matching"
)

type Skill struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EquipmentSkillRequirement defines what a technician must hold to operate
// a piece of equipment.
type EquipmentSkillRequirement struct {
	EquipmentID           uint64               `json:"equipment_id"`
	SkillID               uint64               `json:"skill_id"`
	MinimumProficiency    matching.Proficiency `json:"minimum_proficiency"`
	CertificationRequired bool                 `json:"certification_required"`
}

func (r EquipmentSkillRequirement) MatchingView() matching.Requirement {
	return matching.Requirement{
		SkillID:               r.SkillID,
		MinimumProficiency:    r.MinimumProficiency,
		CertificationRequired: r.CertificationRequired,
	}
}

// TechnicianSkill records a technician's holding of one skill.
type TechnicianSkill struct {
	UserID              uint64               `json:"user_id"`
	SkillID             uint64               `json:"skill_id"`
	Proficiency         matching.Proficiency `json:"proficiency"`
	IsCertified         bool                 `json:"is_certified"`
	CertificationExpiry *time.Time           `json:"certification_expiry,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

func (s TechnicianSkill) MatchingView() matching.SkillRecord {
	return matching.SkillRecord{
		SkillID:             s.SkillID,
		Proficiency:         s.Proficiency,
		IsCertified:         s.IsCertified,
		CertificationExpiry: s.CertificationExpiry,
	}
}
