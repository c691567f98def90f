package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wadesk/console-api/internal/core/domain"
	"github.com/wadesk/console-api/internal/core/ports"
)

const (
	secretPrefix    = "wad_"
	secretByteLen   = 32
	defaultKeyName  = "API Key"
	globalKeyID     = "global"
	globalKeyRecord = "Global Admin Key"
)

// KeyService implements the credential lifecycle over a KeyRepository.
// The global key is read through from configuration on each call and never
// touches the store.
type KeyService struct {
	repo      ports.KeyRepository
	touch     ports.TouchLimiter
	globalKey string
	log       zerolog.Logger
}

func NewKeyService(repo ports.KeyRepository, touch ports.TouchLimiter, globalKey string, log zerolog.Logger) *KeyService {
	return &KeyService{repo: repo, touch: touch, globalKey: globalKey, log: log}
}

func (s *KeyService) List(ctx context.Context, p *domain.Principal) ([]*domain.APIKey, error) {
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByOwner(ctx, p.ID)
}

func (s *KeyService) Create(ctx context.Context, p *domain.Principal, in ports.CreateKeyInput) (*domain.APIKey, error) {
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}

	secret, err := newSecret()
	if err != nil {
		return nil, err
	}

	name := in.Name
	if name == "" {
		name = defaultKeyName
	}

	key := &domain.APIKey{
		ID:          uuid.NewString(),
		Key:         secret,
		OwnerUserID: p.ID,
		Name:        name,
		Permissions: domain.NormalizePermissions(in.Permissions),
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   in.ExpiresAt,
	}

	if err := s.repo.Insert(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *KeyService) Update(ctx context.Context, p *domain.Principal, id string, patch ports.KeyMetaPatch) (*domain.APIKey, error) {
	if _, err := s.owned(ctx, p, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateMeta(ctx, id, patch)
}

func (s *KeyService) Revoke(ctx context.Context, p *domain.Principal, id string) error {
	key, err := s.owned(ctx, p, id)
	if err != nil {
		return err
	}
	// Revoking an already-revoked key succeeds without moving RevokedAt.
	if key.RevokedAt != nil {
		return nil
	}
	return s.repo.Revoke(ctx, id, time.Now().UTC())
}

func (s *KeyService) Authenticate(ctx context.Context, secret string) (*domain.APIKey, error) {
	if secret == "" {
		return nil, domain.ErrUnauthenticated
	}

	if s.globalKey != "" && secret == s.globalKey {
		return globalKey(s.globalKey), nil
	}

	key, err := s.repo.FindBySecret(ctx, secret)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	now := time.Now().UTC()
	if !key.IsUsable(now) {
		return nil, domain.ErrUnauthenticated
	}

	s.recordUse(ctx, key.ID, now)
	return key, nil
}

func (s *KeyService) GlobalKey(ctx context.Context, p *domain.Principal) (string, error) {
	if err := domain.Authorize(p, domain.RoleAdmin); err != nil {
		return "", err
	}
	if s.globalKey == "" {
		return "", domain.ErrNotConfigured
	}
	return s.globalKey, nil
}

// owned loads a key and enforces the lifecycle ownership rules: the record
// must exist (NotFound first), global records are immutable through this
// service, and only the owning user may proceed. ADMIN gets no bypass here.
func (s *KeyService) owned(ctx context.Context, p *domain.Principal, id string) (*domain.APIKey, error) {
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}

	key, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if key.IsGlobal() || key.OwnerUserID != p.ID {
		return nil, domain.ErrForbidden
	}
	return key, nil
}

// recordUse persists lastUsedAt best-effort, throttled so hot keys do not
// write on every request. Failures are logged and swallowed.
func (s *KeyService) recordUse(ctx context.Context, keyID string, at time.Time) {
	if s.touch != nil && !s.touch.Allow(ctx, keyID) {
		return
	}
	if err := s.repo.TouchLastUsed(ctx, keyID, at); err != nil {
		s.log.Warn().Err(err).Str("key_id", keyID).Msg("last-used update failed")
	}
}

// globalKey synthesizes the in-memory record for the configuration-sourced
// admin key. It is never persisted.
func globalKey(secret string) *domain.APIKey {
	return &domain.APIKey{
		ID:          globalKeyID,
		Key:         secret,
		Name:        globalKeyRecord,
		Permissions: []string{domain.PermissionAll},
	}
}

// newSecret mints an unguessable key value.
func newSecret() (string, error) {
	b := make([]byte, secretByteLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return secretPrefix + hex.EncodeToString(b), nil
}
