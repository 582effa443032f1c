package http

import (
	"github.com/gin-gonic/gin"

	"github.com/tmills/rosterd/internal/audit"
	"github.com/tmills/rosterd/internal/auth"
	"github.com/tmills/rosterd/internal/configs"
	"github.com/tmills/rosterd/internal/database"
	dbconfigs "github.com/tmills/rosterd/internal/database/configs"
	"github.com/tmills/rosterd/internal/database/schedule"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
// This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	Database        *database.Database
	AuthService     *auth.Service
	AuthMiddleware  *auth.Middleware
	ConfigRepo      *dbconfigs.Repository
	ConfigLifecycle *configs.Lifecycle
	ScheduleRepo    *schedule.Repository
	AuditService    *audit.Service

	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Everything below /api except /api/login requires a bearer token.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cfg.AuthMiddleware.Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	sessions := NewSessionController(cfg.AuthService, cfg.AuditService)
	accounts := NewAccountController(cfg.AuthService, cfg.AuditService)
	configsController := NewConfigController(cfg.ConfigRepo, cfg.ConfigLifecycle, cfg.AuditService)
	scheduleController := NewScheduleController(cfg.ScheduleRepo, cfg.AuditService)
	auditController := NewAuditController(cfg.AuditService)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Session endpoints
	router.POST("/api/login", sessions.Login)
	router.POST("/api/logout", sessions.Logout)
	router.POST("/api/change_password", sessions.ChangePassword)

	// Account management endpoints
	router.GET("/api/accounts", accounts.List)
	router.POST("/api/accounts", accounts.Create)
	router.PATCH("/api/accounts/:id/role", accounts.UpdateRole)
	router.DELETE("/api/accounts/:id", accounts.Delete)

	// Calendar config endpoints
	router.GET("/api/configs", configsController.List)
	router.POST("/api/configs", configsController.Create)
	router.PUT("/api/configs/:id", configsController.Update)
	router.POST("/api/configs/:id/activate", configsController.SetActive)
	router.DELETE("/api/configs/:id", configsController.Delete)
	router.PUT("/api/configs/:id/colors", configsController.SetEmployeeColor)

	// Employee endpoints
	router.GET("/api/employees", scheduleController.ListEmployees)
	router.POST("/api/employees", scheduleController.CreateEmployee)
	router.PUT("/api/employees/:id", scheduleController.UpdateEmployee)
	router.DELETE("/api/employees/:id", scheduleController.DeleteEmployee)
	router.GET("/api/employees/:id/shifts", scheduleController.ListShifts)
	router.GET("/api/employees/:id/vacations", scheduleController.ListVacations)

	// Shift endpoints
	router.GET("/api/shifts", scheduleController.ListShiftsBetween)
	router.POST("/api/shifts", scheduleController.CreateShift)
	router.PUT("/api/shifts/:id", scheduleController.UpdateShift)
	router.DELETE("/api/shifts/:id", scheduleController.DeleteShift)

	// Vacation endpoints
	router.POST("/api/vacations", scheduleController.CreateVacation)
	router.POST("/api/vacations/:id/approve", scheduleController.ApproveVacation)
	router.DELETE("/api/vacations/:id", scheduleController.DeleteVacation)

	// Audit trail (admin only)
	router.GET("/api/audit", auditController.GetAuditEvents)

	return router
}
