package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/wadesk/console-api/internal/core/domain"
	"github.com/wadesk/console-api/internal/core/ports"
)

// principalKey is the echo context key the resolved principal is stored
// under. Handlers read it back through handler.ctxPrincipal.
const principalKey = "principal"

// Session resolves the session cookie into a principal and injects it into
// the request context. Requests without a resolvable session are rejected
// with 401 before reaching the handler.
func Session(idp ports.IdentityProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := SessionToken(c.Request())
			if !ok {
				return domain.ErrUnauthenticated
			}

			p, err := idp.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(principalKey, p)
			return next(c)
		}
	}
}
