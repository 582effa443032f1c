package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tmills/rosterd/internal/config"
	"github.com/tmills/rosterd/internal/tasks"
)

// MaintenanceScheduler periodically enqueues the session reaper and audit
// cleanup tasks. The tasks themselves run on the backlite queue; cron only
// decides when to enqueue.
type MaintenanceScheduler struct {
	taskClient *tasks.Client
	reaperCfg  config.Reaper
	auditCfg   config.Audit

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(taskClient *tasks.Client, reaperCfg config.Reaper, auditCfg config.Audit) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		taskClient: taskClient,
		reaperCfg:  reaperCfg,
		auditCfg:   auditCfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the reaper is enabled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.reaperCfg.Enabled {
		log.Printf("Maintenance scheduler: disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.reaperCfg.Schedule, func() {
		s.enqueueMaintenance()
	}); err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started with schedule '%s'", s.reaperCfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler and waits for running jobs.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Maintenance scheduler: stopped")
}

// RunNow enqueues the maintenance tasks immediately.
func (s *MaintenanceScheduler) RunNow() {
	go s.enqueueMaintenance()
}

// IsRunning returns whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next maintenance run will occur.
func (s *MaintenanceScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	t := entries[0].Next
	return &t
}

func (s *MaintenanceScheduler) enqueueMaintenance() {
	if s.taskClient == nil {
		return
	}

	if _, err := s.taskClient.Add(tasks.ReapSessionsTask{}).Save(); err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue session reap: %v", err)
	}

	if _, err := s.taskClient.Add(tasks.CleanupAuditEventsTask{
		RetentionDays: s.auditCfg.RetentionDays,
	}).Save(); err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue audit cleanup: %v", err)
	}
}
