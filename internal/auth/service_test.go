package auth

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tmills/rosterd/internal/authz"
	"github.com/tmills/rosterd/internal/config"
	"github.com/tmills/rosterd/internal/configs"
	"github.com/tmills/rosterd/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Account{},
		&entities.Session{},
		&entities.Config{},
		&entities.ConfigEmployeeColor{},
		&entities.Employee{},
		&entities.Shift{},
		&entities.Vacation{},
	)
	require.NoError(t, err)

	cfg := config.Auth{
		SessionLifetime: time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}
	service := NewService(db, configs.NewLifecycle(db), cfg)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, db, cleanup
}

func TestCreateAccount(t *testing.T) {
	service, db, cleanup := setupTestService(t)
	defer cleanup()

	account, err := service.CreateAccount("boss@example.com", "password123", entities.RoleSupervisor)
	require.NoError(t, err)
	assert.NotZero(t, account.ID)
	assert.Equal(t, entities.RoleSupervisor, account.Role)
	assert.NotEqual(t, "password123", account.PasswordHash)

	// A default config must exist and be the active one.
	require.NotNil(t, account.ActiveConfigID)

	var cfg entities.Config
	require.NoError(t, db.First(&cfg, *account.ActiveConfigID).Error)
	assert.Equal(t, account.ID, cfg.AccountID)
	assert.Equal(t, "Default", cfg.Name)
}

func TestCreateAccount_Duplicate(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	_, err = service.CreateAccount("boss@example.com", "password456", entities.RoleRead)
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestCreateAccount_Validation(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.CreateAccount("", "password123", entities.RoleRead)
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = service.CreateAccount("boss@example.com", "", entities.RoleRead)
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = service.CreateAccount("not-an-email", "password123", entities.RoleRead)
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = service.CreateAccount("boss@example.com", "password123", entities.Role("owner"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = service.CreateAccount("boss@example.com", "short", entities.RoleRead)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	account, token, err := service.Login("boss@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)
	assert.Len(t, token, 64)
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	// Unknown email and wrong password must yield the same error.
	_, _, unknownErr := service.Login("nobody@example.com", "password123")
	_, _, wrongErr := service.Login("boss@example.com", "wrong-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidPassword)
	assert.ErrorIs(t, wrongErr, ErrInvalidPassword)
}

func TestLogin_ConcurrentSessions(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	_, first, err := service.Login("boss@example.com", "password123")
	require.NoError(t, err)
	_, second, err := service.Login("boss@example.com", "password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Both tokens validate independently.
	_, err = service.Validate(first)
	assert.NoError(t, err)
	_, err = service.Validate(second)
	assert.NoError(t, err)
}

func TestValidate_UnknownToken(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Validate("no-such-token")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = service.Validate("")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestValidate_ExpiredToken(t *testing.T) {
	service, db, cleanup := setupTestService(t)
	defer cleanup()

	account, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	session := &entities.Session{
		Token:     "expiredtoken",
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(session).Error)

	_, err = service.Validate("expiredtoken")
	assert.ErrorIs(t, err, ErrTokenExpired)

	// The row stays in place for the reaper and keeps reporting expiry.
	_, err = service.Validate("expiredtoken")
	assert.ErrorIs(t, err, ErrTokenExpired)

	var count int64
	require.NoError(t, db.Model(&entities.Session{}).Where("token = ?", "expiredtoken").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestValidate_DeletedAccount(t *testing.T) {
	service, db, cleanup := setupTestService(t)
	defer cleanup()

	account, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	_, token, err := service.Login("boss@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, db.Delete(&entities.Account{}, account.ID).Error)

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestLogout(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	_, token, err := service.Login("boss@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, service.Logout(token))

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// Logging out again, or with an unknown token, is a quiet success.
	assert.NoError(t, service.Logout(token))
	assert.NoError(t, service.Logout("never-existed"))
}

func TestChangePassword(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	account, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	_, token, err := service.Login("boss@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, service.ChangePassword(account.ID, "password123", "newpassword456"))

	// Old password stops working, new one works.
	_, _, err = service.Login("boss@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	_, _, err = service.Login("boss@example.com", "newpassword456")
	assert.NoError(t, err)

	// Sessions issued before the change stay valid.
	_, err = service.Validate(token)
	assert.NoError(t, err)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	account, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	err = service.ChangePassword(account.ID, "wrong-password", "newpassword456")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestDeleteAccount(t *testing.T) {
	service, db, cleanup := setupTestService(t)
	defer cleanup()

	account, err := service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	_, token, err := service.Login("boss@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, service.DeleteAccount(account.ID))

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	var configCount, sessionCount int64
	require.NoError(t, db.Model(&entities.Config{}).Where("account_id = ?", account.ID).Count(&configCount).Error)
	require.NoError(t, db.Model(&entities.Session{}).Where("account_id = ?", account.ID).Count(&sessionCount).Error)
	assert.Zero(t, configCount)
	assert.Zero(t, sessionCount)
}

func TestDeleteAccount_ReleasesOwnedRecords(t *testing.T) {
	service, db, cleanup := setupTestService(t)
	defer cleanup()

	super, err := service.CreateAccount("super@example.com", "password123", entities.RoleSupervisor)
	require.NoError(t, err)
	admin, err := service.CreateAccount("admin@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	employee := &entities.Employee{SupervisorID: &super.ID, FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, db.Create(employee).Error)
	shift := &entities.Shift{SupervisorID: &super.ID, EmployeeID: employee.ID, Start: time.Now(), Hours: 8}
	require.NoError(t, db.Create(shift).Error)
	vacation := &entities.Vacation{SupervisorID: &super.ID, EmployeeID: employee.ID, Start: time.Now(), Days: 5}
	require.NoError(t, db.Create(vacation).Error)

	require.NoError(t, service.DeleteAccount(super.ID))

	// The records become unassigned, not orphaned: a surviving supervisor
	// can still mutate and thereby claim them.
	var released entities.Employee
	require.NoError(t, db.First(&released, employee.ID).Error)
	assert.Nil(t, released.SupervisorID)
	assert.NoError(t, authz.CanMutate(admin, authz.MinRoleMutateRecord, &released))

	var releasedShift entities.Shift
	require.NoError(t, db.First(&releasedShift, shift.ID).Error)
	assert.Nil(t, releasedShift.SupervisorID)

	var releasedVacation entities.Vacation
	require.NoError(t, db.First(&releasedVacation, vacation.ID).Error)
	assert.Nil(t, releasedVacation.SupervisorID)
}

func TestDeleteAccount_Unknown(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	err := service.DeleteAccount(9999)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestUpdateRole(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	account, err := service.CreateAccount("boss@example.com", "password123", entities.RoleRead)
	require.NoError(t, err)

	require.NoError(t, service.UpdateRole(account.ID, entities.RoleSupervisor))

	updated, err := service.GetAccountByID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleSupervisor, updated.Role)

	assert.ErrorIs(t, service.UpdateRole(account.ID, entities.Role("owner")), ErrInvalidRole)
	assert.ErrorIs(t, service.UpdateRole(9999, entities.RoleRead), ErrAccountNotFound)
}

func TestHasAccounts(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	has, err := service.HasAccounts()
	require.NoError(t, err)
	assert.False(t, has)

	_, err = service.CreateAccount("boss@example.com", "password123", entities.RoleAdmin)
	require.NoError(t, err)

	has, err = service.HasAccounts()
	require.NoError(t, err)
	assert.True(t, has)
}
