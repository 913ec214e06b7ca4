package authz

import (
	"testing"

	"lab-system/internal/entities"

	"github.com/stretchr/testify/assert"
)

func TestGatekeeper_Superuser(t *testing.T) {
	g := NewGatekeeper()
	perms := map[string]bool{Superuser: true}
	assert.True(t, g.Can(perms, &entities.User{ID: 1}, WorkOrdersDelete, nil))
}

func TestGatekeeper_CatalogEntities(t *testing.T) {
	g := NewGatekeeper()
	actor := &entities.User{ID: 1}

	t.Run("view needs only the base permission", func(t *testing.T) {
		perms := map[string]bool{CatalogsView: true}
		assert.True(t, g.Can(perms, actor, CatalogsView, nil))
	})

	t.Run("write needs scope:all", func(t *testing.T) {
		perms := map[string]bool{CatalogsUpdate: true}
		assert.False(t, g.Can(perms, actor, CatalogsUpdate, nil))
		perms[ScopeAll] = true
		assert.True(t, g.Can(perms, actor, CatalogsUpdate, nil))
	})
}

func TestGatekeeper_WorkOrderScopes(t *testing.T) {
	g := NewGatekeeper()
	lab := uint64(3)
	otherLab := uint64(4)
	actor := &entities.User{ID: 7, LaboratoryID: &lab}

	ownOrder := &entities.WorkOrder{ID: 1, CreatedBy: 7}
	labOrder := &entities.WorkOrder{ID: 2, CreatedBy: 99, LaboratoryID: &lab}
	foreignOrder := &entities.WorkOrder{ID: 3, CreatedBy: 99, LaboratoryID: &otherLab}

	t.Run("scope own", func(t *testing.T) {
		perms := map[string]bool{WorkOrdersUpdate: true, ScopeOwn: true}
		assert.True(t, g.Can(perms, actor, WorkOrdersUpdate, ownOrder))
		assert.False(t, g.Can(perms, actor, WorkOrdersUpdate, labOrder))
	})

	t.Run("scope lab", func(t *testing.T) {
		perms := map[string]bool{WorkOrdersUpdate: true, ScopeLab: true}
		assert.True(t, g.Can(perms, actor, WorkOrdersUpdate, labOrder))
		assert.False(t, g.Can(perms, actor, WorkOrdersUpdate, foreignOrder))
	})

	t.Run("scope all", func(t *testing.T) {
		perms := map[string]bool{WorkOrdersUpdate: true, ScopeAll: true}
		assert.True(t, g.Can(perms, actor, WorkOrdersUpdate, foreignOrder))
	})

	t.Run("no base permission", func(t *testing.T) {
		perms := map[string]bool{ScopeAll: true}
		assert.False(t, g.Can(perms, actor, WorkOrdersUpdate, ownOrder))
	})

	t.Run("assignee counts as own", func(t *testing.T) {
		assignee := uint64(7)
		assigned := &entities.WorkOrder{ID: 4, CreatedBy: 99, AssigneeID: &assignee}
		perms := map[string]bool{WorkOrdersUpdate: true, ScopeOwn: true}
		assert.True(t, g.Can(perms, actor, WorkOrdersUpdate, assigned))
	})
}
