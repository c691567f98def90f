package ports

import (
	"context"
	"time"

	"github.com/wadesk/console-api/internal/core/domain"
)

// KeyMetaPatch carries a partial update for a key's mutable metadata.
// Nil fields retain their current value.
type KeyMetaPatch struct {
	Name      *string
	ExpiresAt *time.Time
}

// KeyRepository defines the persistence contract for API keys. All writes to
// a single key id must be atomic at the storage layer so that racing revoke
// and update calls leave the record in one operation's complete end state.
type KeyRepository interface {
	Insert(ctx context.Context, key *domain.APIKey) error
	FindByID(ctx context.Context, id string) (*domain.APIKey, error)
	FindBySecret(ctx context.Context, secret string) (*domain.APIKey, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]*domain.APIKey, error)
	UpdateMeta(ctx context.Context, id string, patch KeyMetaPatch) (*domain.APIKey, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}

// TouchLimiter rate-limits lastUsedAt persistence so that a busy key does
// not turn every authenticated request into a store write.
type TouchLimiter interface {
	// Allow reports whether a touch for this key id should be persisted now.
	Allow(ctx context.Context, keyID string) bool
}
