package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmills/rosterd/internal/audit"
	auditdb "github.com/tmills/rosterd/internal/database/audit"
	"github.com/tmills/rosterd/internal/auth"
	"github.com/tmills/rosterd/internal/config"
	"github.com/tmills/rosterd/internal/configs"
	"github.com/tmills/rosterd/internal/database"
	dbconfigs "github.com/tmills/rosterd/internal/database/configs"
	"github.com/tmills/rosterd/internal/database/schedule"
	"github.com/tmills/rosterd/internal/database/sessions"
	http_controllers "github.com/tmills/rosterd/internal/http"
	"github.com/tmills/rosterd/internal/scheduler"
	"github.com/tmills/rosterd/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt before shutting down with a grace period.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting rosterd v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	sessionRepo := sessions.NewRepository(db.DB)
	configRepo := dbconfigs.NewRepository(db.DB)
	scheduleRepo := schedule.NewRepository(db.DB)
	auditService := audit.NewService(auditdb.NewRepository(db.DB))

	lifecycle := configs.NewLifecycle(db.DB)
	authService := auth.NewService(db.DB, lifecycle, cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService)

	hasAccounts, err := authService.HasAccounts()
	if err != nil {
		log.Printf("WARNING: failed to check for existing accounts: %v", err)
	} else if !hasAccounts {
		log.Printf("No accounts found. Run '%s add-account' to create an administrator.", os.Args[0])
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.DefaultConfig()
		taskCfg.Workers = cfg.Tasks.Workers
		taskCfg.ReleaseAfter = cfg.Tasks.ReleaseAfter
		taskCfg.CleanupInterval = cfg.Tasks.CleanupInterval

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewReapSessionsQueue(sessionRepo),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Reaper, cfg.Audit)
		if err := maintenance.Start(taskCtx); err != nil {
			log.Printf("WARNING: failed to start maintenance scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:        db,
		AuthService:     authService,
		AuthMiddleware:  authMiddleware,
		ConfigRepo:      configRepo,
		ConfigLifecycle: lifecycle,
		ScheduleRepo:    scheduleRepo,
		AuditService:    auditService,
		Version:         version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
