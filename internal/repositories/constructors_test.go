package repositories

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// Every pgx-backed repository constructor takes (pool, logger); this keeps
// the wiring in routes.InitRouter uniform.
func TestRepositoryConstructors(t *testing.T) {
	var pool *pgxpool.Pool
	logger := zap.NewNop()

	assert.NotNil(t, NewUserRepository(pool, logger))
	assert.NotNil(t, NewRoleRepository(pool, logger))
	assert.NotNil(t, NewPermissionRepository(pool, logger))
	assert.NotNil(t, NewClientRepository(pool, logger))
	assert.NotNil(t, NewLaboratoryRepository(pool, logger))
	assert.NotNil(t, NewEquipmentRepository(pool, logger))
	assert.NotNil(t, NewReservationRepository(pool, logger))
	assert.NotNil(t, NewSkillRepository(pool, logger))
	assert.NotNil(t, NewWorkOrderRepository(pool, logger))
	assert.NotNil(t, NewMaterialRepository(pool, logger))
	assert.NotNil(t, NewDashboardRepository(pool, logger))
	assert.NotNil(t, NewReportRepository(pool, logger))
	assert.NotNil(t, NewTxManager(pool))
}
