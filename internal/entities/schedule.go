package entities

import "time"

// Owned is implemented by records whose mutation requires an ownership match
// against the authenticated account. A nil owner means the record is
// unassigned; mutating it still needs supervisor privileges.
type Owned interface {
	OwnerID() *uint
}

// Employee is a person appearing on the schedule. SupervisorID is the owning
// account; nil means the employee is not yet claimed by anyone.
type Employee struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SupervisorID *uint     `gorm:"index" json:"supervisor_id,omitempty"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	PhoneNumber  string    `gorm:"size:30" json:"phone_number,omitempty"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Employee) OwnerID() *uint { return e.SupervisorID }

// Shift is one scheduled block of work for an employee.
type Shift struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SupervisorID *uint     `gorm:"index" json:"supervisor_id,omitempty"`
	EmployeeID   uint      `gorm:"index" json:"employee_id"`
	Start        time.Time `gorm:"index" json:"start"`
	Hours        float64   `json:"hours"`
	OnCall       bool      `json:"on_call"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Shift) OwnerID() *uint { return s.SupervisorID }

// Vacation is a requested block of time off. SupervisorID designates the one
// account allowed to approve it.
type Vacation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SupervisorID *uint     `gorm:"index" json:"supervisor_id,omitempty"`
	EmployeeID   uint      `gorm:"index" json:"employee_id"`
	Start        time.Time `json:"start"`
	Days         int       `json:"days"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (v *Vacation) OwnerID() *uint { return v.SupervisorID }
