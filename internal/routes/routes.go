package routes

import (
	"time"

	"lab-system/internal/authz"
	"lab-system/internal/controllers"
	"lab-system/internal/repositories"
	"lab-system/internal/scheduling"
	"lab-system/internal/services"
	"lab-system/pkg/config"
	"lab-system/pkg/middleware"
	"lab-system/pkg/service"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// InitRouter builds the whole dependency graph and mounts every route
// group under /api.
func InitRouter(e *echo.Echo, dbPool *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) {
	// Repositories
	userRepo := repositories.NewUserRepository(dbPool, logger)
	roleRepo := repositories.NewRoleRepository(dbPool, logger)
	permRepo := repositories.NewPermissionRepository(dbPool, logger)
	clientRepo := repositories.NewClientRepository(dbPool, logger)
	labRepo := repositories.NewLaboratoryRepository(dbPool, logger)
	equipRepo := repositories.NewEquipmentRepository(dbPool, logger)
	resRepo := repositories.NewReservationRepository(dbPool, logger)
	skillRepo := repositories.NewSkillRepository(dbPool, logger)
	woRepo := repositories.NewWorkOrderRepository(dbPool, logger)
	matRepo := repositories.NewMaterialRepository(dbPool, logger)
	dashRepo := repositories.NewDashboardRepository(dbPool, logger)
	reportRepo := repositories.NewReportRepository(dbPool, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	txManager := repositories.NewTxManager(dbPool)

	// Services
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)
	permSvc := services.NewAuthPermissionService(permRepo, cacheRepo, cfg.Cache, logger)
	authSvc := services.NewAuthService(userRepo, jwtSvc, logger)
	userSvc := services.NewUserService(userRepo, roleRepo, logger)
	roleSvc := services.NewRoleService(roleRepo, permRepo, permSvc, txManager, logger)
	clientSvc := services.NewClientService(clientRepo, logger)
	labSvc := services.NewLaboratoryService(labRepo, logger)
	equipSvc := services.NewEquipmentService(equipRepo, resRepo, skillRepo, txManager, logger)
	matchSvc := services.NewMatchingService(equipRepo, skillRepo, userRepo, resRepo, logger)
	resSvc := services.NewReservationService(resRepo, equipRepo, woRepo, txManager, scheduling.NewLockRegistry(), logger)
	skillSvc := services.NewSkillService(skillRepo, userRepo, logger)
	woSvc := services.NewWorkOrderService(woRepo, clientRepo, userRepo, matchSvc, cfg.Priority, logger)
	materialSvc := services.NewMaterialService(matRepo, txManager, logger)
	dashSvc := services.NewDashboardService(dashRepo, matRepo, logger)
	reportSvc := services.NewReportService(reportRepo, logger)

	gate := authz.NewGatekeeper()
	authMw := middleware.NewAuthMiddleware(jwtSvc, permSvc, logger)
	responseCache := gocache.New(cfg.Cache.DashboardTTL, 5*time.Minute)

	// Controllers
	authCtl := controllers.NewAuthController(authSvc, logger)
	userCtl := controllers.NewUserController(userSvc, gate, logger)
	roleCtl := controllers.NewRoleController(roleSvc, permSvc, logger)
	clientCtl := controllers.NewClientController(clientSvc, logger)
	labCtl := controllers.NewLaboratoryController(labSvc, logger)
	equipCtl := controllers.NewEquipmentController(equipSvc, matchSvc, logger)
	resCtl := controllers.NewReservationController(resSvc, logger)
	skillCtl := controllers.NewSkillController(skillSvc, logger)
	woCtl := controllers.NewWorkOrderController(woSvc, userSvc, gate, logger)
	matCtl := controllers.NewMaterialController(materialSvc, logger)
	dashCtl := controllers.NewDashboardController(dashSvc, logger)
	reportCtl := controllers.NewReportController(reportSvc, logger)

	api := e.Group("/api")

	registerAuthRoutes(api, authCtl, authMw)
	registerUserRoutes(api, userCtl, authMw, logger)
	registerRoleRoutes(api, roleCtl, authMw, logger)
	registerCatalogRoutes(api, clientCtl, labCtl, authMw, logger)
	registerEquipmentRoutes(api, equipCtl, authMw, logger)
	registerReservationRoutes(api, resCtl, authMw, logger)
	registerSkillRoutes(api, skillCtl, authMw, logger)
	registerWorkOrderRoutes(api, woCtl, authMw, logger)
	registerMaterialRoutes(api, matCtl, authMw, logger)
	registerDashboardRoutes(api, dashCtl, authMw, responseCache, cfg.Cache.DashboardTTL, logger)
	registerReportRoutes(api, reportCtl, authMw, logger)
}
