package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wadesk/console-api/internal/core/domain"
	"github.com/wadesk/console-api/internal/core/ports"
)

type stubKeyService struct {
	ports.KeyService

	key       *domain.APIKey
	err       error
	gotSecret string
}

func (s *stubKeyService) Authenticate(_ context.Context, secret string) (*domain.APIKey, error) {
	s.gotSecret = secret
	if s.err != nil {
		return nil, s.err
	}
	return s.key, nil
}

func apiKeyContext(t *testing.T, header string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	if header != "" {
		req.Header.Set(APIKeyHeader, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestAPIKeyAuth_Valid(t *testing.T) {
	svc := &stubKeyService{key: &domain.APIKey{ID: "k1", Permissions: []string{"keys:read"}}}
	c := apiKeyContext(t, "wad_secret")

	called := false
	handler := APIKeyAuth(svc)(func(c echo.Context) error {
		called = true
		k, _ := c.Get("api_key").(*domain.APIKey)
		if k == nil || k.ID != "k1" {
			t.Fatalf("key not injected: %+v", k)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if svc.gotSecret != "wad_secret" {
		t.Fatalf("service saw secret %q", svc.gotSecret)
	}
}

func TestAPIKeyAuth_Rejected(t *testing.T) {
	svc := &stubKeyService{err: domain.ErrUnauthenticated}
	c := apiKeyContext(t, "wad_bad")

	handler := APIKeyAuth(svc)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	svc := &stubKeyService{err: domain.ErrUnauthenticated}
	c := apiKeyContext(t, "")

	handler := APIKeyAuth(svc)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireScope(t *testing.T) {
	c := apiKeyContext(t, "wad_secret")
	c.Set("api_key", &domain.APIKey{ID: "k1", Permissions: []string{"messages:send"}})

	handler := RequireScope("keys:read")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	c2 := apiKeyContext(t, "wad_secret")
	c2.Set("api_key", &domain.APIKey{ID: "k1", Permissions: []string{"keys:read"}})

	called := false
	ok := RequireScope("keys:read")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := ok(c2); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called for satisfied scope")
	}
}

func TestRequireScope_NoKeyInContext(t *testing.T) {
	c := apiKeyContext(t, "")

	handler := RequireScope("keys:read")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
