package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/wadesk/console-api/internal/core/domain"
)

func TestAdminHandler_GlobalKey(t *testing.T) {
	h := NewAdminHandler(&stubKeyService{globalKey: "wad_global"})
	c, rec := newContext(t, http.MethodGet, "/admin/global-key", "")
	c.Set("principal", &domain.Principal{ID: "user-root", Role: domain.RoleAdmin})

	if err := h.GlobalKey(c); err != nil {
		t.Fatalf("global key: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp globalKeyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Key != "wad_global" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

// A USER reaching the admin surface past the gate's hint header still fails
// the authoritative check with Forbidden, which the HTTP boundary renders
// as 403.
func TestAdminHandler_GlobalKey_WrongRole(t *testing.T) {
	h := NewAdminHandler(&stubKeyService{err: domain.ErrForbidden})
	c, _ := newContext(t, http.MethodGet, "/admin/global-key", "")
	asUser(c)

	if err := h.GlobalKey(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAdminHandler_GlobalKey_NotConfigured(t *testing.T) {
	h := NewAdminHandler(&stubKeyService{err: domain.ErrNotConfigured})
	c, _ := newContext(t, http.MethodGet, "/admin/global-key", "")
	c.Set("principal", &domain.Principal{ID: "user-root", Role: domain.RoleAdmin})

	if err := h.GlobalKey(c); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestAdminHandler_GlobalKey_NoPrincipal(t *testing.T) {
	h := NewAdminHandler(&stubKeyService{})
	c, _ := newContext(t, http.MethodGet, "/admin/global-key", "")

	if err := h.GlobalKey(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
