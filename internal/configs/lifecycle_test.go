package configs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tmills/rosterd/internal/authz"
	"github.com/tmills/rosterd/internal/entities"
)

func setupLifecycle(t *testing.T) (*Lifecycle, *gorm.DB, func()) {
	dbPath := "./test_configs_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Account{},
		&entities.Config{},
		&entities.ConfigEmployeeColor{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewLifecycle(db), db, cleanup
}

func createAccount(t *testing.T, db *gorm.DB, lifecycle *Lifecycle, email string) *entities.Account {
	account := &entities.Account{Email: email, Role: entities.RoleSupervisor}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		return lifecycle.OnAccountCreated(tx, account)
	})
	require.NoError(t, err)
	return account
}

func addConfig(t *testing.T, db *gorm.DB, accountID uint, name string) *entities.Config {
	config := entities.DefaultConfig(accountID)
	config.Name = name
	require.NoError(t, db.Create(config).Error)
	return config
}

func TestOnAccountCreated(t *testing.T) {
	lifecycle, db, cleanup := setupLifecycle(t)
	defer cleanup()

	account := createAccount(t, db, lifecycle, "boss@example.com")

	require.NotNil(t, account.ActiveConfigID)

	var config entities.Config
	require.NoError(t, db.First(&config, *account.ActiveConfigID).Error)
	assert.Equal(t, account.ID, config.AccountID)
	assert.Equal(t, "Default", config.Name)
	assert.Equal(t, entities.HourFormat12, config.HourFormat)

	// The stored pointer matches what the struct reports.
	var stored entities.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	require.NotNil(t, stored.ActiveConfigID)
	assert.Equal(t, *account.ActiveConfigID, *stored.ActiveConfigID)
}

func TestSetActive(t *testing.T) {
	lifecycle, db, cleanup := setupLifecycle(t)
	defer cleanup()

	account := createAccount(t, db, lifecycle, "boss@example.com")
	second := addConfig(t, db, account.ID, "Week view")

	require.NoError(t, lifecycle.SetActive(account, second.ID))
	require.NotNil(t, account.ActiveConfigID)
	assert.Equal(t, second.ID, *account.ActiveConfigID)

	var stored entities.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, second.ID, *stored.ActiveConfigID)
}

func TestSetActive_NotFound(t *testing.T) {
	lifecycle, db, cleanup := setupLifecycle(t)
	defer cleanup()

	account := createAccount(t, db, lifecycle, "boss@example.com")
	assert.ErrorIs(t, lifecycle.SetActive(account, 9999), ErrNotFound)
}

func TestSetActive_OtherAccountsConfig(t *testing.T) {
	lifecycle, db, cleanup := setupLifecycle(t)
	defer cleanup()

	account := createAccount(t, db, lifecycle, "boss@example.com")
	other := createAccount(t, db, lifecycle, "other@example.com")

	err := lifecycle.SetActive(account, *other.ActiveConfigID)
	assert.ErrorIs(t, err, authz.ErrIdentityMismatch)
}

func TestRemove_LastConfigIsNoOp(t *testing.T) {
	lifecycle, db, cleanup := setupLifecycle(t)
	defer cleanup()

	account := createAccount(t, db, lifecycle, "boss@example.com")
	onlyID := *account.ActiveConfigID

	// Removing the sole config quietly does nothing.
	require.NoError(t, lifecycle.Remove(account, onlyID))

	var count int64
	require.NoError(t, db.Model(&entities.Config{}).Where("account_id = ?", account.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, onlyID, *account.ActiveConfigID)
}

func TestRemove_InactiveConfig(t *testing.T) {
	lifecycle, db, cleanup := setupLifecycle(t)
	defer cleanup()

	account := createAccount(t, db, lifecycle, "boss@example.com")
	activeID := *account.ActiveConfigID
	second := addConfig(t, db, account.ID, "Week view")

	require.NoError(t, lifecycle.Remove(account, second.ID))

	// The pointer never moved.
	assert.Equal(t, activeID, *account.ActiveConfigID)

	var count int64
	require.NoError(t, db.Model(&entities.Config{}).Where("id = ?", second.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemove_ActiveConfigRepoints(t *testing.T) {
	lifecycle, db, cleanup := setupLifecycle(t)
	defer cleanup()

	account := createAccount(t, db, lifecycle, "boss@example.com")
	first := *account.ActiveConfigID
	second := addConfig(t, db, account.ID, "Week view")

	require.NoError(t, lifecycle.SetActive(account, second.ID))
	require.NoError(t, lifecycle.Remove(account, second.ID))

	// The pointer moved to the lowest-id survivor.
	require.NotNil(t, account.ActiveConfigID)
	assert.Equal(t, first, *account.ActiveConfigID)

	var stored entities.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, first, *stored.ActiveConfigID)
}

func TestRemove_DeletesEmployeeColors(t *testing.T) {
	lifecycle, db, cleanup := setupLifecycle(t)
	defer cleanup()

	account := createAccount(t, db, lifecycle, "boss@example.com")
	second := addConfig(t, db, account.ID, "Week view")

	color := &entities.ConfigEmployeeColor{ConfigID: second.ID, EmployeeID: 1, Color: "#FF0000"}
	require.NoError(t, db.Create(color).Error)

	require.NoError(t, lifecycle.Remove(account, second.ID))

	var count int64
	require.NoError(t, db.Model(&entities.ConfigEmployeeColor{}).Where("config_id = ?", second.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemove_NotFoundAndMismatch(t *testing.T) {
	lifecycle, db, cleanup := setupLifecycle(t)
	defer cleanup()

	account := createAccount(t, db, lifecycle, "boss@example.com")
	other := createAccount(t, db, lifecycle, "other@example.com")

	assert.ErrorIs(t, lifecycle.Remove(account, 9999), ErrNotFound)
	assert.ErrorIs(t, lifecycle.Remove(account, *other.ActiveConfigID), authz.ErrIdentityMismatch)
}
