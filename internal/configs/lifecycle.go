// Package configs owns the lifecycle of the per-account active config
// pointer. Invariant: an account with at least one config always has its
// active pointer set to a config it owns. The pointer is only ever mutated
// here.
package configs

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tmills/rosterd/internal/authz"
	"github.com/tmills/rosterd/internal/entities"
)

// ErrNotFound is returned when the referenced config does not exist.
var ErrNotFound = errors.New("config not found")

// Lifecycle manages creation, activation and removal of configs.
type Lifecycle struct {
	db *gorm.DB
}

// NewLifecycle creates a new config lifecycle manager.
func NewLifecycle(db *gorm.DB) *Lifecycle {
	return &Lifecycle{db: db}
}

// OnAccountCreated inserts the account's first config and points the active
// pointer at it. It must run inside the transaction that created the account
// so the account never commits without a pointed-at default.
func (l *Lifecycle) OnAccountCreated(tx *gorm.DB, account *entities.Account) error {
	config := entities.DefaultConfig(account.ID)
	if err := tx.Create(config).Error; err != nil {
		return fmt.Errorf("failed to create default config: %w", err)
	}

	err := tx.Model(&entities.Account{}).Where("id = ?", account.ID).
		Update("active_config_id", config.ID).Error
	if err != nil {
		return fmt.Errorf("failed to set active config: %w", err)
	}

	account.ActiveConfigID = &config.ID
	return nil
}

// SetActive re-points the account's active config. The config must be owned
// by the account; no further liveness validation happens here.
func (l *Lifecycle) SetActive(account *entities.Account, configID uint) error {
	var config entities.Config
	err := l.db.First(&config, configID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if config.AccountID != account.ID {
		return authz.ErrIdentityMismatch
	}

	err = l.db.Model(&entities.Account{}).Where("id = ?", account.ID).
		Update("active_config_id", config.ID).Error
	if err != nil {
		return err
	}

	account.ActiveConfigID = &config.ID
	return nil
}

// Remove deletes one of the account's configs. Removing the last remaining
// config is silently skipped so the account is never left without one. When
// the removed config was the active one, the pointer moves to the first
// remaining config before Remove returns. The whole transition is one
// transaction.
func (l *Lifecycle) Remove(account *entities.Account, configID uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var target entities.Config
		err := tx.First(&target, configID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if target.AccountID != account.ID {
			return authz.ErrIdentityMismatch
		}

		var owned []entities.Config
		err = tx.Where("account_id = ?", account.ID).Order("id ASC").Find(&owned).Error
		if err != nil {
			return err
		}

		// Last config: skip the delete entirely.
		if len(owned) <= 1 {
			return nil
		}

		if err := tx.Where("config_id = ?", target.ID).
			Delete(&entities.ConfigEmployeeColor{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entities.Config{}, target.ID).Error; err != nil {
			return err
		}

		if account.ActiveConfigID == nil || *account.ActiveConfigID != target.ID {
			return nil
		}

		// The active config was deleted; re-point to the first survivor.
		var next *entities.Config
		for i := range owned {
			if owned[i].ID != target.ID {
				next = &owned[i]
				break
			}
		}
		err = tx.Model(&entities.Account{}).Where("id = ?", account.ID).
			Update("active_config_id", next.ID).Error
		if err != nil {
			return err
		}
		account.ActiveConfigID = &next.ID
		return nil
	})
}
