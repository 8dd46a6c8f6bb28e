package service

import (
	"errors"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not allowed to perform this action")
	ErrNotEligibleRole = errors.New("active role is not eligible for this action")
	ErrProfileRequired = errors.New("an exhibitor profile is required")
)

// Authorize checks that actor runs under role and that role was granted to it.
// A missing identity is ErrUnauthenticated, anything else ErrForbidden.
func Authorize(actor domain.Actor, role domain.Role) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if actor.Role != role || !actor.User().HasRole(role) {
		return ErrForbidden
	}

	return nil
}

// AuthorizeOwner checks that actor is the owner of a resource. Admins acting
// under the ADMIN role pass as well.
func AuthorizeOwner(actor domain.Actor, ownerID uint) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if actor.UserID == ownerID {
		return nil
	}
	if Authorize(actor, domain.RoleAdmin) == nil {
		return nil
	}

	return ErrForbidden
}

// requireEligible is Authorize for actions offered to one kind of participant
// (exhibitors apply, visitors register): a role mismatch is reported as
// ErrNotEligibleRole instead of ErrForbidden.
func requireEligible(actor domain.Actor, role domain.Role) error {
	err := Authorize(actor, role)
	if errors.Is(err, ErrForbidden) {
		return ErrNotEligibleRole
	}

	return err
}
