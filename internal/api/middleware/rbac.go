package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/service"
)

// RequireRole enforces a minimum role for the route. Must run after
// Session. A missing session renders 401, an insufficient role 403; an
// unknown required role is a programming error and surfaces as 500.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := service.CheckPermission(SessionFromContext(c), required)
			if errors.Is(err, domain.ErrNotAuthenticated) {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.MsgNotAuthenticated)
			}
			if err != nil {
				return err
			}
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, domain.MsgForbidden)
			}
			return next(c)
		}
	}
}

// RequireAction gates the route on the capability table instead of the
// role order.
func RequireAction(action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFromContext(c)
			if sess == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.MsgNotAuthenticated)
			}
			if !service.Can(sess, action) {
				return echo.NewHTTPError(http.StatusForbidden, domain.MsgForbidden)
			}
			return next(c)
		}
	}
}
