package domain

import "errors"

// Role identifies the privilege tier of a human account.
type Role string

const (
	RoleUser      Role = "USER"
	RoleDeveloper Role = "DEVELOPER"
	RoleAdmin     Role = "ADMIN"
)

var ErrUnauthenticated = errors.New("authentication required")
var ErrForbidden = errors.New("access forbidden")

// ParseRole maps a raw claim value to a known Role.
// Unknown values are rejected rather than defaulted.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleDeveloper, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Principal is the resolved identity behind a request. It is constructed
// per request from a validated session and never persisted.
type Principal struct {
	ID            string `json:"id"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}
