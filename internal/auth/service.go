package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/tmills/rosterd/internal/config"
	"github.com/tmills/rosterd/internal/configs"
	"github.com/tmills/rosterd/internal/database/accounts"
	"github.com/tmills/rosterd/internal/database/sessions"
	"github.com/tmills/rosterd/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrAccountExists    = errors.New("account already exists")
	ErrAccountNotFound  = errors.New("account not found")
	ErrTokenNotFound    = errors.New("unknown session token")
	ErrTokenExpired     = errors.New("session token expired")
	ErrInvalidRole      = errors.New("invalid role")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// DefaultSessionLifetime applies when no lifetime is configured.
const DefaultSessionLifetime = 24 * time.Hour

// Service handles authentication and account management.
type Service struct {
	db        *gorm.DB
	accounts  *accounts.Repository
	sessions  *sessions.Repository
	lifecycle *configs.Lifecycle
	config    config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, lifecycle *configs.Lifecycle, cfg config.Auth) *Service {
	return &Service{
		db:        db,
		accounts:  accounts.NewRepository(db),
		sessions:  sessions.NewRepository(db),
		lifecycle: lifecycle,
		config:    cfg,
	}
}

// CreateAccount creates a new account together with its default config. The
// account row and the config insert commit as one transaction; a failure in
// either leaves no trace of the account.
func (s *Service) CreateAccount(email, password string, role entities.Role) (*entities.Account, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	// Validate email format and length (RFC 5321 limit is 254)
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	// Check if account already exists
	_, err := s.accounts.GetByEmail(email)
	if err == nil {
		return nil, ErrAccountExists
	}
	if !errors.Is(err, accounts.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	account := &entities.Account{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return s.lifecycle.OnAccountCreated(tx, account)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// Login verifies credentials and issues a session token. An unknown email
// and a wrong password are indistinguishable to the caller; both surface as
// ErrInvalidPassword so accounts cannot be enumerated.
func (s *Service) Login(email, password string) (*entities.Account, string, error) {
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, "", ErrInvalidPassword
		}
		return nil, "", fmt.Errorf("failed to find account: %w", err)
	}

	if err := CheckPassword(password, account.PasswordHash); err != nil {
		return nil, "", err
	}

	token, err := NewSessionToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	lifetime := s.config.SessionLifetime
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}

	session := &entities.Session{
		Token:     token,
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(lifetime),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	return account, token, nil
}

// Validate resolves a presented token to its owning account. Expiry is
// evaluated here, at lookup time; an expired row stays in place for the
// reaper and keeps reporting ErrTokenExpired until it is purged.
func (s *Service) Validate(token string) (*entities.Account, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}

	session, err := s.sessions.GetByToken(token)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if session.Expired(time.Now()) {
		return nil, ErrTokenExpired
	}

	account, err := s.accounts.GetByID(session.AccountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			// Account deleted out from under a live session.
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to resolve session account: %w", err)
	}

	return account, nil
}

// Logout deletes the session matching the token. Unknown tokens are a no-op
// success; logging out twice is not an error.
func (s *Service) Logout(token string) error {
	return s.sessions.DeleteByToken(token)
}

// ChangePassword verifies the old password and atomically replaces the hash.
// Existing sessions stay valid across a password change.
func (s *Service) ChangePassword(accountID uint, oldPassword, newPassword string) error {
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if err := CheckPassword(oldPassword, account.PasswordHash); err != nil {
		return err
	}

	newHash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	return s.accounts.UpdatePasswordHash(account.ID, newHash)
}

// DeleteAccount removes an account along with its sessions, configs and
// active pointer in one transaction. Schedule records supervised by the
// account are released to unassigned so surviving supervisors can claim
// them. Role enforcement happens at the call site; this is the mechanics
// only.
func (s *Service) DeleteAccount(accountID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entities.Account{}, accountID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAccountNotFound
		}
		if err := tx.Where("account_id = ?", accountID).
			Delete(&entities.Session{}).Error; err != nil {
			return err
		}

		var owned []entities.Config
		if err := tx.Where("account_id = ?", accountID).Find(&owned).Error; err != nil {
			return err
		}
		for _, config := range owned {
			if err := tx.Where("config_id = ?", config.ID).
				Delete(&entities.ConfigEmployeeColor{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("account_id = ?", accountID).
			Delete(&entities.Config{}).Error; err != nil {
			return err
		}

		// Ownership must not outlive the account. A record left pointing
		// at a deleted supervisor would fail the ownership check for
		// everyone and become immutable.
		for _, model := range []interface{}{
			&entities.Employee{},
			&entities.Shift{},
			&entities.Vacation{},
		} {
			if err := tx.Model(model).Where("supervisor_id = ?", accountID).
				Update("supervisor_id", nil).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAccountByID retrieves an account by its ID.
func (s *Service) GetAccountByID(id uint) (*entities.Account, error) {
	account, err := s.accounts.GetByID(id)
	if errors.Is(err, accounts.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return account, err
}

// ListAccounts returns all accounts.
func (s *Service) ListAccounts() ([]entities.Account, error) {
	return s.accounts.List()
}

// UpdateRole changes an account's role.
func (s *Service) UpdateRole(accountID uint, role entities.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	err := s.accounts.UpdateRole(accountID, role)
	if errors.Is(err, accounts.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}

// HasAccounts returns true if any accounts exist in the database.
func (s *Service) HasAccounts() (bool, error) {
	count, err := s.accounts.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
