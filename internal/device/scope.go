package device

// Scope holds the resolved ownership restriction for a request context.
// A nil Scope means unrestricted access (superuser).
//
// The scope is applied inside the repository, not by the handlers: every
// query and mutation carries it, so a restricted caller can never reach
// another owner's devices regardless of what filter parameters the
// transport layer passes through.
type Scope struct {
	// OwnerID is the only account whose devices are visible and mutable.
	OwnerID string
}

// ScopeFor builds the device scope for a caller. Superusers get a nil
// scope (unrestricted); everyone else is pinned to their own account ID.
func ScopeFor(accountID string, superuser bool) *Scope {
	if superuser {
		return nil
	}
	return &Scope{OwnerID: accountID}
}

// Allows reports whether a device owned by ownerID is inside the scope.
func (s *Scope) Allows(ownerID string) bool {
	if s == nil {
		return true // unrestricted
	}
	return s.OwnerID == ownerID
}

// ForceOwner returns the owner ID a create operation must use. Restricted
// callers always create devices owned by themselves; a client-supplied
// owner field is ignored. Unrestricted callers keep the requested owner.
func (s *Scope) ForceOwner(requested string) string {
	if s == nil {
		return requested
	}
	return s.OwnerID
}
