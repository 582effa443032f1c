// Package auth implements credential storage, session issuance and session
// validation for the scheduling backend.
//
// Passwords are stored as bcrypt hashes and only ever mutated through
// ChangePassword. Sessions are opaque random tokens persisted with a fixed
// expiry; validation is a lookup plus a clock comparison and never renews a
// session. Logout deletes the row and is idempotent.
//
// Authorization decisions live in the authz package; this package only
// answers "who is calling".
package auth
