package sessions

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
	dbPath := "./test_sessions_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Session{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestCreateAndGetByToken(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	session := &entities.Session{
		Token:     "tok-1",
		AccountID: 1,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(session))

	found, err := repo.GetByToken("tok-1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), found.AccountID)
}

func TestGetByToken_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByToken("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByToken_ExpiredRowStillReturned(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	session := &entities.Session{
		Token:     "tok-old",
		AccountID: 1,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(session))

	found, err := repo.GetByToken("tok-old")
	require.NoError(t, err)
	assert.True(t, found.Expired(time.Now()))
}

func TestDeleteByToken_Idempotent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	session := &entities.Session{Token: "tok-1", AccountID: 1, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(session))

	require.NoError(t, repo.DeleteByToken("tok-1"))
	_, err := repo.GetByToken("tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, repo.DeleteByToken("tok-1"))
	assert.NoError(t, repo.DeleteByToken("never-existed"))
}

func TestDeleteForAccount(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, token := range []string{"a", "b"} {
		require.NoError(t, repo.Create(&entities.Session{Token: token, AccountID: 1, ExpiresAt: time.Now().Add(time.Hour)}))
	}
	require.NoError(t, repo.Create(&entities.Session{Token: "c", AccountID: 2, ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, repo.DeleteForAccount(1))

	count, err := repo.CountForAccount(1)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.CountForAccount(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteExpired(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	require.NoError(t, repo.Create(&entities.Session{Token: "stale-1", AccountID: 1, ExpiresAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, repo.Create(&entities.Session{Token: "stale-2", AccountID: 2, ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Create(&entities.Session{Token: "live", AccountID: 1, ExpiresAt: now.Add(time.Hour)}))

	deleted, err := repo.DeleteExpired(now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = repo.GetByToken("live")
	assert.NoError(t, err)

	deleted, err = repo.DeleteExpired(now)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
