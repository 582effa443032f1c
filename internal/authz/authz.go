// Package authz decides whether an authenticated account may perform a
// requested mutation. Two independent checks apply: a minimum role per
// operation class, and for operations targeting an existing owned record an
// ownership match between the record's owner and the authenticated account.
// Neither check shortcuts the other.
package authz

import (
	"errors"

	"github.com/tmills/rosterd/internal/entities"
)

var (
	// ErrUnauthorized means no valid session backed the request.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden means the account's role is below the operation's minimum.
	ErrForbidden = errors.New("insufficient role")
	// ErrIdentityMismatch means the record belongs to a different account.
	ErrIdentityMismatch = errors.New("record owned by another account")
)

// Minimum roles per operation class.
const (
	MinRoleRead          = entities.RoleRead
	MinRoleMutateRecord  = entities.RoleSupervisor
	MinRoleManageAccount = entities.RoleSupervisor
	MinRoleDeleteAccount = entities.RoleAdmin
)

// RequireRole denies with ErrForbidden when the account's role is below min.
// A nil account is ErrUnauthorized.
func RequireRole(account *entities.Account, min entities.Role) error {
	if account == nil {
		return ErrUnauthorized
	}
	if !account.Role.AtLeast(min) {
		return ErrForbidden
	}
	return nil
}

// RequireOwner denies with ErrIdentityMismatch when the record declares an
// owner other than the account. A record with no owner set passes; claiming
// an unassigned record is gated by the role check alone.
func RequireOwner(account *entities.Account, record entities.Owned) error {
	if account == nil {
		return ErrUnauthorized
	}
	owner := record.OwnerID()
	if owner == nil {
		return nil
	}
	if *owner != account.ID {
		return ErrIdentityMismatch
	}
	return nil
}

// CanMutate runs the role check and then the ownership check for a mutation
// against an existing owned record. Pass a nil record for mutations that
// create a fresh one.
func CanMutate(account *entities.Account, min entities.Role, record entities.Owned) error {
	if err := RequireRole(account, min); err != nil {
		return err
	}
	if record == nil {
		return nil
	}
	return RequireOwner(account, record)
}

// CanApprove checks that the account is the vacation's designated supervisor.
// Sufficient role alone never grants approval, and an undesignated vacation
// cannot be approved by anyone.
func CanApprove(account *entities.Account, vacation *entities.Vacation) error {
	if err := RequireRole(account, MinRoleMutateRecord); err != nil {
		return err
	}
	if vacation.SupervisorID == nil || *vacation.SupervisorID != account.ID {
		return ErrIdentityMismatch
	}
	return nil
}
