package handler

import (
	"github.com/wadesk/console-api/internal/core/domain"

	"github.com/labstack/echo/v4"
)

// ctxPrincipal extracts the principal injected by the Session middleware and
// fast-fails before any service call when it is absent: a missing principal
// on a session-guarded route means the middleware never ran or the session
// did not resolve — either way, 401.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, _ := c.Get("principal").(*domain.Principal)
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// ctxAPIKey extracts the key injected by the APIKeyAuth middleware.
func ctxAPIKey(c echo.Context) (*domain.APIKey, error) {
	k, _ := c.Get("api_key").(*domain.APIKey)
	if k == nil {
		return nil, domain.ErrUnauthenticated
	}
	return k, nil
}
