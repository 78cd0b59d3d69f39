package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusverein/member-portal/internal/api/metrics"
	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/service"
)

// CSRFHeader carries the anti-forgery token on state-changing requests.
const CSRFHeader = "X-CSRF-Token"

// CSRF verifies the per-session anti-forgery token on every state-changing
// verb. Safe verbs pass through untouched. Must run after Session.
func CSRF(guard *service.CSRFGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			sess := SessionFromContext(c)
			if !guard.Verify(sess, c.Request().Header.Get(CSRFHeader)) {
				metrics.CSRFRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.MsgCSRFInvalid)
			}
			return next(c)
		}
	}
}
