package entities

import "time"

type HourFormat string

const (
	HourFormat12 HourFormat = "h12"
	HourFormat24 HourFormat = "h24"
)

type LastNameStyle string

const (
	LastNameFull    LastNameStyle = "full"
	LastNameInitial LastNameStyle = "initial"
	LastNameHidden  LastNameStyle = "hidden"
)

type CalendarView string

const (
	CalendarViewMonth CalendarView = "month"
	CalendarViewWeek  CalendarView = "week"
	CalendarViewDay   CalendarView = "day"
)

// Config is a named calendar view/preference bundle owned by exactly one
// account. Every account with at least one config has its active pointer set
// to a config it owns; the lifecycle in internal/configs maintains that.
type Config struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	AccountID     uint          `gorm:"index" json:"account_id"`
	Name          string        `gorm:"size:100" json:"name"`
	HourFormat    HourFormat    `gorm:"size:10" json:"hour_format"`
	LastNameStyle LastNameStyle `gorm:"size:10" json:"last_name_style"`
	View          CalendarView  `gorm:"size:10" json:"view"`
	ViewDate      time.Time     `json:"view_date"`
	ShowMinutes   bool          `json:"show_minutes"`
	ShowShifts    bool          `json:"show_shifts"`
	ShowVacations bool          `json:"show_vacations"`
	ShowDisabled  bool          `json:"show_disabled"`

	EmployeeColors []ConfigEmployeeColor `gorm:"foreignKey:ConfigID" json:"employee_colors,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfigEmployeeColor assigns a display color to one employee within one
// config.
type ConfigEmployeeColor struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ConfigID   uint   `gorm:"index" json:"config_id"`
	EmployeeID uint   `gorm:"index" json:"employee_id"`
	Color      string `gorm:"size:20" json:"color"`
}

// DefaultConfig returns the configuration created for a brand-new account.
func DefaultConfig(accountID uint) *Config {
	return &Config{
		AccountID:     accountID,
		Name:          "Default",
		HourFormat:    HourFormat12,
		LastNameStyle: LastNameInitial,
		View:          CalendarViewMonth,
		ViewDate:      time.Now().UTC().Truncate(24 * time.Hour),
		ShowMinutes:   true,
		ShowShifts:    true,
		ShowVacations: true,
	}
}
