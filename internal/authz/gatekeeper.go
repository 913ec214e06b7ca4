package authz

import (
	"strings"

	"lab-system/internal/entities"
)

// Gatekeeper answers "may this actor perform this action on this target".
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// Can checks the actor's permission set. Catalog-style entities only need
// the base permission (plus scope:all for writes); work orders and users
// get a scope check against the target.
func (g *Gatekeeper) Can(
	perms map[string]bool,
	actor *entities.User,
	permission string,
	target interface{},
) bool {
	if perms[Superuser] {
		return true
	}
	if !perms[permission] {
		return false
	}

	isSimpleEntity := strings.HasPrefix(permission, "catalogs:") ||
		strings.HasPrefix(permission, "roles:") ||
		strings.HasPrefix(permission, "permissions:") ||
		strings.HasPrefix(permission, "equipment:") ||
		strings.HasPrefix(permission, "skills:")

	if isSimpleEntity {
		if strings.HasSuffix(permission, ":view") {
			return true
		}
		return perms[ScopeAll]
	}

	if target == nil {
		return perms[ScopeAll] || perms[ScopeLab] || perms[ScopeOwn]
	}

	if perms[ScopeAll] {
		return true
	}

	switch t := target.(type) {
	case *entities.WorkOrder:
		if perms[ScopeLab] && actor.LaboratoryID != nil && t.LaboratoryID != nil && *actor.LaboratoryID == *t.LaboratoryID {
			return true
		}
		if perms[ScopeOwn] && (actor.ID == t.CreatedBy || (t.AssigneeID != nil && actor.ID == *t.AssigneeID)) {
			return true
		}

	case *entities.Reservation:
		if perms[ScopeOwn] && (actor.ID == t.CreatedBy || (t.TechnicianID != nil && actor.ID == *t.TechnicianID)) {
			return true
		}
		if perms[ScopeLab] {
			return true
		}

	case *entities.User:
		if perms[ScopeLab] && actor.LaboratoryID != nil && t.LaboratoryID != nil && *actor.LaboratoryID == *t.LaboratoryID {
			return true
		}
		if perms[ScopeOwn] && actor.ID == t.ID {
			return true
		}
	}

	return false
}
