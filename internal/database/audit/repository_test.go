package audit

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tmills/rosterd/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_audit_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestLogEventRoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	event := &entities.AuditEvent{
		AccountID: 1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, repo.LogEvent(event))
	require.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())

	events, total, err := repo.GetEvents(1, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, "login", events[0].Action)
	assert.Equal(t, entities.AuditStatusSuccess, events[0].Status)
}

func TestGetEvents_FilterAndPaginate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.LogEvent(&entities.AuditEvent{
			AccountID: 1,
			EventType: entities.AuditEventAuth,
			Action:    "login",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		AccountID: 2,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		CreatedAt: base,
	}))

	// Account filter; accountID 0 means every account.
	events, total, err := repo.GetEvents(1, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, events, 3)

	all, total, err := repo.GetEvents(0, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, all, 4)

	// Most recent first, pagination applies after ordering.
	page, total, err := repo.GetEvents(1, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	rest, _, err := repo.GetEvents(1, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestGetEventsByType(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{AccountID: 1, EventType: entities.AuditEventAuth, Action: "login"}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{AccountID: 1, EventType: entities.AuditEventConfig, Action: "config_delete"}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{AccountID: 2, EventType: entities.AuditEventConfig, Action: "config_create"}))

	events, total, err := repo.GetEventsByType(entities.AuditEventConfig, 0, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, events, 2)

	events, total, err = repo.GetEventsByType(entities.AuditEventConfig, 1, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, "config_delete", events[0].Action)
}

func TestDeleteOldEvents_Cutoff(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{AccountID: 1, Action: "old", CreatedAt: cutoff.Add(-time.Hour)}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{AccountID: 1, Action: "boundary", CreatedAt: cutoff}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{AccountID: 1, Action: "recent", CreatedAt: cutoff.Add(time.Hour)}))

	deleted, err := repo.DeleteOldEvents(cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	// Rows at or after the cutoff survive.
	events, total, err := repo.GetEvents(1, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, e := range events {
		assert.NotEqual(t, "old", e.Action)
	}

	deleted, err = repo.DeleteOldEvents(cutoff)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
