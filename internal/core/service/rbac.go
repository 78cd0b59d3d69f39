package service

import (
	"fmt"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// CheckPermission reports whether the session's role carries at least the
// privilege of required. It is a pure function over (role, requirement).
//
// A nil session is an authentication problem, not a permission one: it
// returns domain.ErrNotAuthenticated so callers can render 401 instead of
// 403. An unknown required role is a contract violation by the caller and
// returns domain.ErrUnknownRole.
func CheckPermission(sess *domain.Session, required domain.Role) (bool, error) {
	if sess == nil {
		return false, domain.ErrNotAuthenticated
	}
	if !required.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownRole, required)
	}
	return sess.Role.AtLeast(required), nil
}

// Can reports whether the session may perform the given action per the
// capability table. Viewing the inventory is granted to every
// authenticated session regardless of role.
func Can(sess *domain.Session, action domain.Action) bool {
	if sess == nil {
		return false
	}
	if action == domain.ActionViewInventory {
		return true
	}
	return sess.Role.Grants(action)
}
