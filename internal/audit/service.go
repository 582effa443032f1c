package audit

import (
	"log"
	"time"

	"github.com/tmills/rosterd/internal/database/audit"
	"github.com/tmills/rosterd/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogAuth records a login, logout or password change attempt.
func (s *Service) LogAuth(accountID uint, action, ipAddr string, success bool) {
	event := &entities.AuditEvent{
		AccountID: accountID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogDenied records an authorization denial. The event type follows the
// entity being acted on, so account denials file under the account type
// rather than the schedule type.
func (s *Service) LogDenied(accountID uint, action, entityType string, entityID *uint, reason error) {
	event := &entities.AuditEvent{
		AccountID:  accountID,
		EventType:  eventTypeForEntity(entityType),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     entities.AuditStatusDenied,
	}
	if reason != nil {
		event.ErrorMsg = truncate(reason.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAccount records an account management event.
func (s *Service) LogAccount(actorID uint, action string, targetID uint, err error) {
	event := &entities.AuditEvent{
		AccountID:  actorID,
		EventType:  entities.AuditEventAccount,
		Action:     action,
		EntityType: "account",
		EntityID:   &targetID,
		Status:     entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogConfig records a config lifecycle event.
func (s *Service) LogConfig(accountID uint, action string, configID uint, err error) {
	event := &entities.AuditEvent{
		AccountID:  accountID,
		EventType:  entities.AuditEventConfig,
		Action:     action,
		EntityType: "config",
		EntityID:   &configID,
		Status:     entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(accountID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(accountID, limit, offset)
}

// GetEventsByType retrieves paginated audit events of one type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, accountID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, accountID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// eventTypeForEntity maps an entity type to its audit event type.
// Employees, shifts and vacations all file under the schedule type.
func eventTypeForEntity(entityType string) entities.AuditEventType {
	switch entityType {
	case "account":
		return entities.AuditEventAccount
	case "config":
		return entities.AuditEventConfig
	default:
		return entities.AuditEventSchedule
	}
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
