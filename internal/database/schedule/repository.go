// Package schedule provides database operations for employees, shifts and
// vacations. These are the owned records the authorization gate checks; their
// calendar semantics live with the callers.
package schedule

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tmills/rosterd/internal/entities"
)

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("record not found")

// Repository handles employee, shift and vacation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new schedule repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetEmployee retrieves an employee by ID.
func (r *Repository) GetEmployee(id uint) (*entities.Employee, error) {
	var employee entities.Employee
	err := r.db.First(&employee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// ListEmployees returns all employees ordered by last name.
func (r *Repository) ListEmployees() ([]entities.Employee, error) {
	var employees []entities.Employee
	err := r.db.Order("last_name ASC, first_name ASC").Find(&employees).Error
	return employees, err
}

// CreateEmployee inserts a new employee.
func (r *Repository) CreateEmployee(employee *entities.Employee) error {
	return r.db.Create(employee).Error
}

// UpdateEmployee saves changes to an existing employee.
func (r *Repository) UpdateEmployee(employee *entities.Employee) error {
	return r.db.Save(employee).Error
}

// DeleteEmployee removes an employee row.
func (r *Repository) DeleteEmployee(id uint) error {
	return r.db.Delete(&entities.Employee{}, id).Error
}

// GetShift retrieves a shift by ID.
func (r *Repository) GetShift(id uint) (*entities.Shift, error) {
	var shift entities.Shift
	err := r.db.First(&shift, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// ListShifts returns shifts for an employee ordered by start time.
func (r *Repository) ListShifts(employeeID uint) ([]entities.Shift, error) {
	var shifts []entities.Shift
	err := r.db.Where("employee_id = ?", employeeID).
		Order("start ASC").Find(&shifts).Error
	return shifts, err
}

// ListShiftsBetween returns all shifts starting inside [from, to).
func (r *Repository) ListShiftsBetween(from, to time.Time) ([]entities.Shift, error) {
	var shifts []entities.Shift
	err := r.db.Where("start >= ? AND start < ?", from, to).
		Order("start ASC").Find(&shifts).Error
	return shifts, err
}

// CreateShift inserts a new shift.
func (r *Repository) CreateShift(shift *entities.Shift) error {
	return r.db.Create(shift).Error
}

// UpdateShift saves changes to an existing shift.
func (r *Repository) UpdateShift(shift *entities.Shift) error {
	return r.db.Save(shift).Error
}

// DeleteShift removes a shift row.
func (r *Repository) DeleteShift(id uint) error {
	return r.db.Delete(&entities.Shift{}, id).Error
}

// GetVacation retrieves a vacation by ID.
func (r *Repository) GetVacation(id uint) (*entities.Vacation, error) {
	var vacation entities.Vacation
	err := r.db.First(&vacation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vacation, nil
}

// ListVacations returns vacations for an employee ordered by start time.
func (r *Repository) ListVacations(employeeID uint) ([]entities.Vacation, error) {
	var vacations []entities.Vacation
	err := r.db.Where("employee_id = ?", employeeID).
		Order("start ASC").Find(&vacations).Error
	return vacations, err
}

// CreateVacation inserts a new vacation request.
func (r *Repository) CreateVacation(vacation *entities.Vacation) error {
	return r.db.Create(vacation).Error
}

// UpdateVacation saves changes to an existing vacation.
func (r *Repository) UpdateVacation(vacation *entities.Vacation) error {
	return r.db.Save(vacation).Error
}

// DeleteVacation removes a vacation row.
func (r *Repository) DeleteVacation(id uint) error {
	return r.db.Delete(&entities.Vacation{}, id).Error
}
