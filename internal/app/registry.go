package app

import (
	"database/sql"
	"path/filepath"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/leave"
	"go-payroll/internal/loan"
	"go-payroll/internal/maintenance"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/rates"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	maintenanceRepo := maintenance.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	ratesRepo := rates.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	attendanceService := attendance.NewService(db, attendanceRepo)
	employeeService := employee.NewService(db, employeeRepo)
	ratesService := rates.NewService(db, ratesRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo)
	loanService := loan.NewServiceWithOutbox(db, loanRepo, outboxRepo)
	maintenanceService := maintenance.NewService(db, maintenanceRepo)
	payrollService := payroll.NewServiceWithOutbox(
		db, payrollRepo, employeeRepo, attendanceRepo, loanRepo, ratesService, outboxRepo, rdb,
	)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	loanHandler := loan.NewHandler(loanService)
	maintenanceHandler := maintenance.NewHandler(maintenanceService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	ratesHandler := rates.NewHandler(ratesService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		loan.RegisterRoutes(api, loanHandler, rbacService)
		maintenance.RegisterRoutes(api, maintenanceHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		rates.RegisterRoutes(api, ratesHandler, rbacService)
	}

	return nil
}
