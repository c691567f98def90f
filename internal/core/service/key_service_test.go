package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadesk/console-api/internal/core/domain"
	"github.com/wadesk/console-api/internal/core/ports"
)

type stubKeyRepo struct {
	keys    map[string]*domain.APIKey
	touched []string
}

func newStubKeyRepo() *stubKeyRepo {
	return &stubKeyRepo{keys: make(map[string]*domain.APIKey)}
}

func cloneKey(k *domain.APIKey) *domain.APIKey {
	if k == nil {
		return nil
	}
	clone := *k
	return &clone
}

func (r *stubKeyRepo) Insert(_ context.Context, key *domain.APIKey) error {
	for _, k := range r.keys {
		if k.Key == key.Key {
			return domain.ErrKeyExists
		}
	}
	if _, ok := r.keys[key.ID]; ok {
		return domain.ErrKeyExists
	}
	r.keys[key.ID] = cloneKey(key)
	return nil
}

func (r *stubKeyRepo) FindByID(_ context.Context, id string) (*domain.APIKey, error) {
	k, ok := r.keys[id]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return cloneKey(k), nil
}

func (r *stubKeyRepo) FindBySecret(_ context.Context, secret string) (*domain.APIKey, error) {
	for _, k := range r.keys {
		if k.Key == secret {
			return cloneKey(k), nil
		}
	}
	return nil, domain.ErrKeyNotFound
}

func (r *stubKeyRepo) ListByOwner(_ context.Context, ownerUserID string) ([]*domain.APIKey, error) {
	out := make([]*domain.APIKey, 0)
	for _, k := range r.keys {
		if k.OwnerUserID == ownerUserID {
			out = append(out, cloneKey(k))
		}
	}
	return out, nil
}

func (r *stubKeyRepo) UpdateMeta(_ context.Context, id string, patch ports.KeyMetaPatch) (*domain.APIKey, error) {
	k, ok := r.keys[id]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	if patch.Name != nil {
		k.Name = *patch.Name
	}
	if patch.ExpiresAt != nil {
		k.ExpiresAt = patch.ExpiresAt
	}
	return cloneKey(k), nil
}

func (r *stubKeyRepo) Revoke(_ context.Context, id string, at time.Time) error {
	k, ok := r.keys[id]
	if !ok {
		return domain.ErrKeyNotFound
	}
	if k.RevokedAt == nil {
		k.RevokedAt = &at
	}
	return nil
}

func (r *stubKeyRepo) TouchLastUsed(_ context.Context, id string, at time.Time) error {
	k, ok := r.keys[id]
	if !ok {
		return domain.ErrKeyNotFound
	}
	k.LastUsedAt = &at
	r.touched = append(r.touched, id)
	return nil
}

type allowAll struct{}

func (allowAll) Allow(context.Context, string) bool { return true }

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

func newService(repo *stubKeyRepo, touch ports.TouchLimiter, globalKey string) *KeyService {
	return NewKeyService(repo, touch, globalKey, zerolog.Nop())
}

var (
	alice = &domain.Principal{ID: "user-alice", Role: domain.RoleUser}
	bob   = &domain.Principal{ID: "user-bob", Role: domain.RoleUser}
	root  = &domain.Principal{ID: "user-root", Role: domain.RoleAdmin}
)

func TestKeyService_CreateThenList(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newService(repo, allowAll{}, "")

	created, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{
		Name:        "ci-key",
		Permissions: []string{"messages:send", "messages:send", "keys:read"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.True(t, strings.HasPrefix(created.Key, "wad_"))
	assert.Equal(t, alice.ID, created.OwnerUserID)
	assert.Equal(t, []string{"messages:send", "keys:read"}, created.Permissions)
	assert.Nil(t, created.RevokedAt)
	assert.Nil(t, created.LastUsedAt)

	keys, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, created.ID, keys[0].ID)
	// Listing re-exposes the raw secret; the contract is all-or-nothing and
	// this service exposes it.
	assert.Equal(t, created.Key, keys[0].Key)
}

func TestKeyService_Create_DefaultsName(t *testing.T) {
	svc := newService(newStubKeyRepo(), allowAll{}, "")

	created, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{})
	require.NoError(t, err)
	assert.Equal(t, "API Key", created.Name)
}

func TestKeyService_Create_Uniqueness(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newService(repo, allowAll{}, "")

	ids := make(map[string]struct{})
	secrets := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		k, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{})
		require.NoError(t, err)
		if _, dup := ids[k.ID]; dup {
			t.Fatalf("duplicate id after %d creates", i)
		}
		if _, dup := secrets[k.Key]; dup {
			t.Fatalf("duplicate secret after %d creates", i)
		}
		ids[k.ID] = struct{}{}
		secrets[k.Key] = struct{}{}
	}
}

func TestKeyService_List_OwnKeysOnly(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newService(repo, allowAll{}, "")

	_, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{Name: "alice-key"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, ports.CreateKeyInput{Name: "bob-key"})
	require.NoError(t, err)

	keys, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "alice-key", keys[0].Name)

	// Admins get their own keys here, nobody else's.
	keys, err = svc.List(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKeyService_Update_Ownership(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newService(repo, allowAll{}, "")

	created, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{Name: "before"})
	require.NoError(t, err)

	name := "after"
	_, err = svc.Update(context.Background(), bob, created.ID, ports.KeyMetaPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// ADMIN has no bypass on another user's personal key.
	_, err = svc.Update(context.Background(), root, created.ID, ports.KeyMetaPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(context.Background(), alice, "no-such-id", ports.KeyMetaPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	_, err = svc.Update(context.Background(), nil, created.ID, ports.KeyMetaPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	updated, err := svc.Update(context.Background(), alice, created.ID, ports.KeyMetaPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)
}

func TestKeyService_Update_PartialRetainsOmitted(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newService(repo, allowAll{}, "")

	expires := time.Now().Add(24 * time.Hour).UTC()
	created, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{
		Name:      "partial",
		ExpiresAt: &expires,
	})
	require.NoError(t, err)

	name := "renamed"
	updated, err := svc.Update(context.Background(), alice, created.ID, ports.KeyMetaPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	require.NotNil(t, updated.ExpiresAt)
	assert.Equal(t, expires.Unix(), updated.ExpiresAt.Unix())
}

func TestKeyService_Revoke(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newService(repo, allowAll{}, "")

	created, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Revoke(context.Background(), bob, created.ID), domain.ErrForbidden)
	require.ErrorIs(t, svc.Revoke(context.Background(), root, created.ID), domain.ErrForbidden)

	require.NoError(t, svc.Revoke(context.Background(), alice, created.ID))
	k, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, k.RevokedAt)
	first := *k.RevokedAt

	// A second revoke succeeds and leaves the original timestamp alone.
	require.NoError(t, svc.Revoke(context.Background(), alice, created.ID))
	k, err = repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *k.RevokedAt)
}

func TestKeyService_Authenticate(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newService(repo, allowAll{}, "")

	created, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{Permissions: []string{"keys:read"}})
	require.NoError(t, err)

	got, err := svc.Authenticate(context.Background(), created.Key)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Contains(t, repo.touched, created.ID)

	_, err = svc.Authenticate(context.Background(), "wad_unknown")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestKeyService_Authenticate_RevokedAndExpired(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newService(repo, allowAll{}, "")

	revoked, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{})
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(context.Background(), alice, revoked.ID))

	_, err = svc.Authenticate(context.Background(), revoked.Key)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	past := time.Now().Add(-time.Minute).UTC()
	expired, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{ExpiresAt: &past})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), expired.Key)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestKeyService_Authenticate_GlobalKey(t *testing.T) {
	svc := newService(newStubKeyRepo(), allowAll{}, "wad_global_secret")

	got, err := svc.Authenticate(context.Background(), "wad_global_secret")
	require.NoError(t, err)
	assert.True(t, got.IsGlobal())
	assert.True(t, got.HasPermission("anything"))
}

func TestKeyService_Authenticate_TouchThrottled(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newService(repo, denyAll{}, "")

	created, err := svc.Create(context.Background(), alice, ports.CreateKeyInput{})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), created.Key)
	require.NoError(t, err)
	assert.Empty(t, repo.touched, "throttled touch must not hit the store")
}

func TestKeyService_GlobalKey(t *testing.T) {
	svc := newService(newStubKeyRepo(), allowAll{}, "wad_global_secret")

	key, err := svc.GlobalKey(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "wad_global_secret", key)

	_, err = svc.GlobalKey(context.Background(), alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.GlobalKey(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

// Absence of configuration is a valid state, reported as NotFound rather
// than Forbidden or an internal failure.
func TestKeyService_GlobalKey_NotConfigured(t *testing.T) {
	svc := newService(newStubKeyRepo(), allowAll{}, "")

	_, err := svc.GlobalKey(context.Background(), root)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
