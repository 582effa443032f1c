package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/tmills/rosterd/internal/audit"
	"github.com/tmills/rosterd/internal/database/sessions"
	"github.com/tmills/rosterd/internal/entities"
	"github.com/tmills/rosterd/internal/tasks"
)

// Ownable schedule records
var _ entities.Owned = (*entities.Employee)(nil)
var _ entities.Owned = (*entities.Shift)(nil)
var _ entities.Owned = (*entities.Vacation)(nil)

// Background maintenance
var _ tasks.SessionReaper = (*sessions.Repository)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
