package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusverein/member-portal/internal/api/metrics"
	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "portal_session"

// sessionContextKey is where the loaded session lives in the echo context.
const sessionContextKey = "session"

// Session loads the session behind the request cookie and runs the two
// per-request gates in order: idle timeout, then store reconciliation.
// Requests without a live, consistent session never reach the handler.
func Session(sessions ports.SessionManager, store ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.MsgNotAuthenticated)
			}

			ctx := c.Request().Context()
			sess, err := store.Get(ctx, cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.MsgNotAuthenticated)
			}

			alive, err := sessions.CheckTimeout(ctx, sess)
			if err != nil {
				return err
			}
			if !alive {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.MsgSessionExpired)
			}

			roleBefore, givenBefore := sess.Role, sess.GivenName
			valid, err := sessions.Reconcile(ctx, sess)
			if err != nil {
				return err
			}
			if !valid {
				metrics.SessionsReconciledTotal.WithLabelValues("invalidated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.MsgSessionExpired)
			}
			if sess.Role != roleBefore || sess.GivenName != givenBefore {
				metrics.SessionsReconciledTotal.WithLabelValues("refreshed").Inc()
			} else {
				metrics.SessionsReconciledTotal.WithLabelValues("valid").Inc()
			}

			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// SessionFromContext returns the session loaded by the Session middleware,
// or nil when the request is unauthenticated.
func SessionFromContext(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionContextKey).(*domain.Session)
	return sess
}

// SetSession injects a session into the context. Used by tests and by the
// login handlers after session creation.
func SetSession(c echo.Context, sess *domain.Session) {
	c.Set(sessionContextKey, sess)
}
