package domain

import (
	"errors"
	"time"
)

var ErrKeyNotFound = errors.New("api key not found")
var ErrKeyExists = errors.New("api key already exists")
var ErrNotConfigured = errors.New("not configured")

// PermissionAll grants every scope. In practice only the
// configuration-sourced global key carries it.
const PermissionAll = "*"

// APIKey is a long-lived programmatic credential, independent of sessions.
type APIKey struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	OwnerUserID string     `json:"owner_user_id,omitempty"` // empty marks a global key
	Name        string     `json:"name"`
	Permissions []string   `json:"permissions"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
}

// IsGlobal reports whether the key is tied to no human account.
func (k *APIKey) IsGlobal() bool {
	return k.OwnerUserID == ""
}

// IsUsable reports whether the key may authenticate a request at instant now:
// not revoked, and either non-expiring or expiring strictly after now.
// A key whose ExpiresAt equals now is already expired.
func (k *APIKey) IsUsable(now time.Time) bool {
	if k.RevokedAt != nil {
		return false
	}
	return k.ExpiresAt == nil || k.ExpiresAt.After(now)
}

// HasPermission reports whether the key carries the given scope,
// either literally or through the wildcard scope.
func (k *APIKey) HasPermission(scope string) bool {
	for _, p := range k.Permissions {
		if p == scope || p == PermissionAll {
			return true
		}
	}
	return false
}

// NormalizePermissions removes duplicate scopes preserving first occurrence.
func NormalizePermissions(scopes []string) []string {
	seen := make(map[string]struct{}, len(scopes))
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
