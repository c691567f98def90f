package domain

// Authorize checks a resolved principal against a set of acceptable roles.
// It returns nil when the principal's role is a member of the set,
// ErrUnauthenticated when no principal is present, and ErrForbidden
// otherwise.
//
// The check is pure set membership: granting ADMIN does not implicitly
// satisfy a DEVELOPER-only check. Call sites that want admins through must
// list RoleAdmin explicitly.
func Authorize(p *Principal, allowed ...Role) error {
	if p == nil {
		return ErrUnauthenticated
	}
	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// AuthorizeKey checks a programmatic credential against a required scope.
// It returns nil when the key carries the scope, ErrUnauthenticated when no
// key is present, and ErrForbidden otherwise. Usability (revocation, expiry)
// is checked at authentication time, not here.
func AuthorizeKey(k *APIKey, scope string) error {
	if k == nil {
		return ErrUnauthenticated
	}
	if !k.HasPermission(scope) {
		return ErrForbidden
	}
	return nil
}
