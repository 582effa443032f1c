// Package accounts provides database operations for account records.
//
// # Usage
//
//	repo := accounts.NewRepository(db)
//	account, err := repo.GetByEmail(email)
package accounts

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tmills/rosterd/internal/entities"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// Repository handles all account database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new accounts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves an account by ID.
func (r *Repository) GetByID(id uint) (*entities.Account, error) {
	var account entities.Account
	err := r.db.First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByEmail retrieves an account by its unique email.
func (r *Repository) GetByEmail(email string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// List returns all accounts ordered by id.
func (r *Repository) List() ([]entities.Account, error) {
	var accounts []entities.Account
	err := r.db.Order("id ASC").Find(&accounts).Error
	return accounts, err
}

// UpdatePasswordHash replaces the stored hash for the account.
func (r *Repository) UpdatePasswordHash(id uint, hash string) error {
	result := r.db.Model(&entities.Account{}).Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRole changes an account's role.
func (r *Repository) UpdateRole(id uint, role entities.Role) error {
	result := r.db.Model(&entities.Account{}).Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of accounts.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Account{}).Count(&count).Error
	return count, err
}
