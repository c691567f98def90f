package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/wadesk/console-api/internal/api/metrics"
	"github.com/wadesk/console-api/internal/core/domain"
	"github.com/wadesk/console-api/internal/core/ports"
)

// APIKeyHeader carries the programmatic credential on inbound requests.
const APIKeyHeader = "X-API-Key"

// apiKeyKey is the echo context key the authenticated key is stored under.
const apiKeyKey = "api_key"

// APIKeyAuth validates the X-API-Key header against the credential store and
// injects the authenticated key into the request context. Unknown, revoked
// and expired keys are rejected with 401.
func APIKeyAuth(svc ports.KeyService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			secret := c.Request().Header.Get(APIKeyHeader)

			key, err := svc.Authenticate(c.Request().Context(), secret)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.APIKeyAuthTotal.WithLabelValues("rejected").Inc()
				} else {
					metrics.APIKeyAuthTotal.WithLabelValues("error").Inc()
				}
				return err
			}

			metrics.APIKeyAuthTotal.WithLabelValues("ok").Inc()
			c.Set(apiKeyKey, key)
			return next(c)
		}
	}
}

// RequireScope enforces that the authenticated key carries the given scope.
// Mount after APIKeyAuth.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, _ := c.Get(apiKeyKey).(*domain.APIKey)
			if err := domain.AuthorizeKey(key, scope); err != nil {
				return err
			}
			return next(c)
		}
	}
}
