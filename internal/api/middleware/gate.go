package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wadesk/console-api/internal/api/metrics"
	"github.com/wadesk/console-api/internal/core/routes"
)

// sessionCookieNames is the ordered list of cookie names consulted for a
// session token. The TLS-qualified name wins over the plain fallback so a
// secure deployment is never shadowed by a stale plain cookie.
var sessionCookieNames = []string{
	"__Secure-session-token",
	"session-token",
}

// SessionToken returns the first present, non-empty session cookie value.
// Presence is all the gate needs; validity is the identity adapter's job.
func SessionToken(r *http.Request) (string, bool) {
	for _, name := range sessionCookieNames {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// Gate runs the request gate on every inbound request. It is deliberately
// cheap: cookie presence only, no session lookup, no I/O. Static assets
// short-circuit before any classification work.
func Gate(classifier *routes.Classifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, hasSession := SessionToken(c.Request())
			d := classifier.Gate(c.Request().URL.Path, hasSession)
			metrics.GateDecisionsTotal.WithLabelValues(d.Action.String()).Inc()

			switch d.Action {
			case routes.ActionRedirect:
				return c.Redirect(http.StatusFound, d.Target)
			case routes.ActionContinueWithHeader:
				c.Response().Header().Set(d.HeaderKey, d.HeaderValue)
			}
			return next(c)
		}
	}
}
