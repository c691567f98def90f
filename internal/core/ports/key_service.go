package ports

import (
	"context"
	"time"

	"github.com/wadesk/console-api/internal/core/domain"
)

// CreateKeyInput is the payload for minting a new API key.
type CreateKeyInput struct {
	Name        string
	Permissions []string
	ExpiresAt   *time.Time
}

// KeyService is the credential lifecycle contract. Every operation requires
// a resolved principal and enforces ownership itself; nothing bypasses it to
// mutate a key directly.
type KeyService interface {
	List(ctx context.Context, p *domain.Principal) ([]*domain.APIKey, error)
	Create(ctx context.Context, p *domain.Principal, in CreateKeyInput) (*domain.APIKey, error)
	Update(ctx context.Context, p *domain.Principal, id string, patch KeyMetaPatch) (*domain.APIKey, error)
	Revoke(ctx context.Context, p *domain.Principal, id string) error

	// Authenticate resolves an X-API-Key header value into a usable key,
	// returning domain.ErrUnauthenticated for unknown, revoked or expired
	// secrets. Successful use records lastUsedAt best-effort.
	Authenticate(ctx context.Context, secret string) (*domain.APIKey, error)

	// GlobalKey returns the configuration-sourced admin key value.
	// ADMIN only; domain.ErrNotConfigured when none is configured.
	GlobalKey(ctx context.Context, p *domain.Principal) (string, error)
}
