package tasks

import "time"

// Config holds the maintenance queue settings. Per-queue retry and timeout
// policy lives on each task's QueueConfig; this only covers the shared
// worker pool and housekeeping cadence.
type Config struct {
	// Workers is the number of concurrent queue workers. Default: 2
	Workers int

	// ReleaseAfter is when stuck tasks are released back to the queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed task rows are pruned. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}
