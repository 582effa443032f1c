// Package configs provides database operations for calendar config records.
package configs

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tmills/rosterd/internal/entities"
)

// ErrNotFound is returned when no config matches the lookup.
var ErrNotFound = errors.New("config not found")

// Repository handles all config database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new configs repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a config with its per-employee colors.
func (r *Repository) GetByID(id uint) (*entities.Config, error) {
	var config entities.Config
	err := r.db.Preload("EmployeeColors").First(&config, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// ListForAccount returns all configs owned by the account in natural order.
func (r *Repository) ListForAccount(accountID uint) ([]entities.Config, error) {
	var configs []entities.Config
	err := r.db.Preload("EmployeeColors").
		Where("account_id = ?", accountID).
		Order("id ASC").Find(&configs).Error
	return configs, err
}

// Create inserts a config row together with any nested employee colors.
func (r *Repository) Create(config *entities.Config) error {
	return r.db.Create(config).Error
}

// Update saves changed preference fields on an existing config.
func (r *Repository) Update(config *entities.Config) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(config).Error
}

// SetEmployeeColor upserts the color one config assigns to one employee.
func (r *Repository) SetEmployeeColor(configID, employeeID uint, color string) error {
	var existing entities.ConfigEmployeeColor
	err := r.db.Where("config_id = ? AND employee_id = ?", configID, employeeID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&entities.ConfigEmployeeColor{
			ConfigID:   configID,
			EmployeeID: employeeID,
			Color:      color,
		}).Error
	}
	if err != nil {
		return err
	}
	existing.Color = color
	return r.db.Save(&existing).Error
}
