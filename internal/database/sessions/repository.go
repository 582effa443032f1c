// Package sessions provides database operations for session rows.
//
// A session row is created at login and deleted at logout. Expiry is never
// evaluated here; callers compare ExpiresAt against their own clock so that
// an expired row is still distinguishable from a missing one.
package sessions

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tmills/rosterd/internal/entities"
)

// ErrNotFound is returned when no session row matches the token.
var ErrNotFound = errors.New("session not found")

// Repository handles all session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new session row.
func (r *Repository) Create(session *entities.Session) error {
	return r.db.Create(session).Error
}

// GetByToken retrieves a session by its token, expired or not.
func (r *Repository) GetByToken(token string) (*entities.Session, error) {
	var session entities.Session
	err := r.db.Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken removes the session row matching the token. Deleting an
// unknown token is not an error; logout is idempotent.
func (r *Repository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&entities.Session{}).Error
}

// DeleteForAccount removes every session belonging to the account.
func (r *Repository) DeleteForAccount(accountID uint) error {
	return r.db.Where("account_id = ?", accountID).Delete(&entities.Session{}).Error
}

// CountForAccount returns the number of live rows for an account, expired
// rows included.
func (r *Repository) CountForAccount(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Session{}).
		Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

// DeleteExpired removes session rows whose expiry is at or before the cutoff.
// Returns the number of deleted rows.
func (r *Repository) DeleteExpired(cutoff time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", cutoff).Delete(&entities.Session{})
	return result.RowsAffected, result.Error
}
