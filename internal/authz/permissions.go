package authz

// Permission codes known to the system. Seeded into the permissions table
// and referenced by route guards.

const (
	Superuser = "superuser"

	// Work orders
	WorkOrdersCreate = "work_orders:create"
	WorkOrdersView   = "work_orders:view"
	WorkOrdersUpdate = "work_orders:update"
	WorkOrdersDelete = "work_orders:delete"
	WorkOrdersAssign = "work_orders:assign"

	// Equipment scheduling
	ReservationsCreate = "reservations:create"
	ReservationsView   = "reservations:view"
	ReservationsUpdate = "reservations:update"

	// Equipment and skill requirements
	EquipmentCreate = "equipment:create"
	EquipmentView   = "equipment:view"
	EquipmentUpdate = "equipment:update"
	EquipmentDelete = "equipment:delete"

	// Personnel
	UsersCreate  = "users:create"
	UsersView    = "users:view"
	UsersUpdate  = "users:update"
	UsersDelete  = "users:delete"
	SkillsManage = "skills:manage"

	// Roles and permissions
	RolesCreate     = "roles:create"
	RolesView       = "roles:view"
	RolesUpdate     = "roles:update"
	RolesDelete     = "roles:delete"
	PermissionsView = "permissions:view"

	// Catalogs: clients, laboratories, skills, materials
	CatalogsCreate = "catalogs:create"
	CatalogsView   = "catalogs:view"
	CatalogsUpdate = "catalogs:update"
	CatalogsDelete = "catalogs:delete"

	// Materials stock
	MaterialsAdjust = "materials:adjust"

	// Reporting
	ReportsView   = "reports:view"
	DashboardView = "dashboard:view"

	// Scope modifiers
	ScopeOwn = "scope:own"
	ScopeLab = "scope:lab"
	ScopeAll = "scope:all"
)

// All lists every permission for seeding.
var All = []string{
	Superuser,
	WorkOrdersCreate, WorkOrdersView, WorkOrdersUpdate, WorkOrdersDelete, WorkOrdersAssign,
	ReservationsCreate, ReservationsView, ReservationsUpdate,
	EquipmentCreate, EquipmentView, EquipmentUpdate, EquipmentDelete,
	UsersCreate, UsersView, UsersUpdate, UsersDelete, SkillsManage,
	RolesCreate, RolesView, RolesUpdate, RolesDelete, PermissionsView,
	CatalogsCreate, CatalogsView, CatalogsUpdate, CatalogsDelete,
	MaterialsAdjust,
	ReportsView, DashboardView,
	ScopeOwn, ScopeLab, ScopeAll,
}
