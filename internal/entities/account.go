package entities

import (
	"time"
)

// Role is an account's privilege tier.
type Role string

const (
	RoleRead       Role = "read"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// roleLevels gives each role an explicit numeric privilege so ordering never
// depends on declaration order. Unknown roles map to 0 and outrank nothing.
var roleLevels = map[Role]int{
	RoleRead:       1,
	RoleSupervisor: 2,
	RoleAdmin:      3,
}

// Level returns the numeric privilege of the role, 0 for unknown roles.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether the role carries at least the privilege of min.
func (r Role) AtLeast(min Role) bool {
	return r.Level() > 0 && r.Level() >= roleLevels[min]
}

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	return r.Level() > 0
}

// Account is an authenticated principal. The password hash is only ever
// written through the credential store and the active config pointer only
// through the config lifecycle.
type Account struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash   string    `gorm:"size:100" json:"-"`
	Role           Role      `gorm:"size:20" json:"role"`
	ActiveConfigID *uint     `json:"active_config_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Session is a time-bounded proof of login. Expiry is fixed at issuance and
// evaluated lazily at lookup; rows are never renewed.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;size:64" json:"-"`
	AccountID uint      `gorm:"index" json:"account_id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// AccountSummary is the client-visible slice of an account returned by login.
type AccountSummary struct {
	ID   uint `json:"id"`
	Role Role `json:"role"`
}

// Summary strips an account down to what the client is allowed to see.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Role: a.Role}
}
