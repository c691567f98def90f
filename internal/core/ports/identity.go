package ports

import (
	"context"

	"github.com/wadesk/console-api/internal/core/domain"
)

// IdentityProvider resolves a session token into a principal. The session
// engine itself (issuance, password hashing, email verification) lives
// outside this service; only the resolution contract is ours.
type IdentityProvider interface {
	// Resolve validates token and returns the principal it proves.
	// Any failure — malformed, expired, bad signature — yields
	// domain.ErrUnauthenticated.
	Resolve(ctx context.Context, token string) (*domain.Principal, error)
}
