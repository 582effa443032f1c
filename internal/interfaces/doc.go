// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Authorization
//
//   - entities.Owned: records carrying an owning account pointer; the
//     authorization gate matches it against the caller (internal/entities/schedule.go)
//
// ## Background Maintenance
//
//   - tasks.SessionReaper: purges expired session rows (internal/tasks/reap_sessions.go)
//   - tasks.AuditEventCleaner: trims old audit events (internal/tasks/cleanup_audit.go)
//
// # Adding a New Owned Record
//
// To add a schedule record subject to ownership checks:
//
//  1. Define the entity with a SupervisorID *uint column and implement Owned:
//
//     func (r *Rotation) OwnerID() *uint { return r.SupervisorID }
//
//  2. Route every mutation through authz.CanMutate in its controller.
//
//  3. Add a compile-time check here.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the current set.
package interfaces
