package auth

import "github.com/google/uuid"

// Scope is the privilege boundary an operation requires.
type Scope int

const (
	// ScopeAnyAuthenticated admits any caller with a valid token.
	ScopeAnyAuthenticated Scope = iota

	// ScopeSelfOnly admits a caller only when the resource owner matches
	// the token's subject.
	ScopeSelfOnly

	// ScopeAdministratorOnly admits only callers whose token carries the
	// Administrator role.
	ScopeAdministratorOnly
)

// Authorize evaluates decoded claims against the required scope. The role
// check uses the role embedded in the token, not a live lookup: a demoted
// administrator keeps administrator privileges here until the token expires.
//
// A denial returns ErrForbidden and the caller must not execute any part of
// the guarded operation. For ScopeSelfOnly, ownerID identifies the resource
// owner; it is ignored for the other scopes.
func Authorize(claims *Claims, scope Scope, ownerID uuid.UUID) error {
	if claims == nil || claims.UserID == uuid.Nil {
		return ErrMissingToken
	}

	switch scope {
	case ScopeAnyAuthenticated:
		return nil
	case ScopeSelfOnly:
		if claims.UserID != ownerID {
			return ErrForbidden
		}
		return nil
	case ScopeAdministratorOnly:
		if !claims.IsAdministrator() {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
