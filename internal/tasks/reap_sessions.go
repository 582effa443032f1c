package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SessionReaper provides the ability to purge expired session rows.
type SessionReaper interface {
	DeleteExpired(cutoff time.Time) (int64, error)
}

// ReapSessionsTask deletes session rows whose expiry has passed. Expired
// sessions are already rejected at validation; this just reclaims the rows.
type ReapSessionsTask struct{}

// Config returns the queue configuration for session reaping tasks.
func (t ReapSessionsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reap_sessions",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReapSessionsProcessor creates a processor function for ReapSessionsTask.
func ReapSessionsProcessor(reaper SessionReaper) backlite.QueueProcessor[ReapSessionsTask] {
	return func(ctx context.Context, task ReapSessionsTask) error {
		if reaper == nil {
			return fmt.Errorf("session reaper not configured")
		}

		deleted, err := reaper.DeleteExpired(time.Now())
		if err != nil {
			return fmt.Errorf("reap sessions: %w", err)
		}

		if deleted > 0 {
			log.Printf("[queue] Reaped %d expired sessions", deleted)
		}
		return nil
	}
}

// NewReapSessionsQueue creates a backlite queue for session reaping tasks.
func NewReapSessionsQueue(reaper SessionReaper) backlite.Queue {
	return backlite.NewQueue(ReapSessionsProcessor(reaper))
}
