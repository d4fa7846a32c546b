package app

import (
	"database/sql"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-officeops/internal/auth"
	"go-officeops/internal/employee"
	"go-officeops/internal/leave"
	"go-officeops/internal/leavebalance"
	"go-officeops/internal/messaging/kafka"
	"go-officeops/internal/orgchart"
	"go-officeops/internal/rbac"
	"go-officeops/internal/rbac/infra"
	"go-officeops/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB, db)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	chainResolver := orgchart.NewResolver(gormDB, logger)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	balanceService := leavebalance.NewService(balanceRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo, balanceRepo, chainResolver, counterRepo, outboxRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	balanceHandler := leavebalance.NewHandler(balanceService)
	leaveHandler := leave.NewHandler(leaveService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leavebalance.RegisterRoutes(api, balanceHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb, logger)
	}

	return nil
}
