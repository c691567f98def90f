package handler

import (
	"time"

	"github.com/wadesk/console-api/internal/core/domain"
)

// --- Request / Response types ---

type createKeyRequest struct {
	Name        string     `json:"name" validate:"omitempty,max=100"`
	Permissions []string   `json:"permissions" validate:"omitempty,dive,required,max=100"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type updateKeyRequest struct {
	Name      *string    `json:"name" validate:"omitempty,max=100"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type keyResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Key         string     `json:"key,omitempty"`
	Permissions []string   `json:"permissions"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
}

type deleteKeyResponse struct {
	ID string `json:"id"`
}

type globalKeyResponse struct {
	Key string `json:"key"`
}

type introspectResponse struct {
	KeyID       string     `json:"key_id"`
	Name        string     `json:"name"`
	OwnerUserID string     `json:"owner_user_id,omitempty"`
	Permissions []string   `json:"permissions"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
}

// toKeyResponse maps a domain key onto the wire. The raw secret is included
// only where the contract re-exposes it: creation and listing. Update
// responses mask it.
func toKeyResponse(k *domain.APIKey, withSecret bool) keyResponse {
	resp := keyResponse{
		ID:          k.ID,
		Name:        k.Name,
		Permissions: k.Permissions,
		CreatedAt:   k.CreatedAt,
		ExpiresAt:   k.ExpiresAt,
		RevokedAt:   k.RevokedAt,
		LastUsedAt:  k.LastUsedAt,
	}
	if withSecret {
		resp.Key = k.Key
	}
	return resp
}
