package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/campusverein/member-portal/internal/api/metrics"
	"github.com/campusverein/member-portal/internal/api/middleware"
	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
	"github.com/campusverein/member-portal/internal/core/service"
)

// AuthHandler exposes login, logout and session inspection.
type AuthHandler struct {
	auth          ports.AuthService
	sessions      ports.SessionManager
	csrf          *service.CSRFGuard
	ssoSecret     []byte
	secureCookies bool
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionManager, csrf *service.CSRFGuard, ssoSecret string, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		sessions:      sessions,
		csrf:          csrf,
		ssoSecret:     []byte(ssoSecret),
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ssoLoginRequest struct {
	// Assertion is the HS256-signed identity assertion minted by the SSO
	// gateway after it completed the provider handshake.
	Assertion string `json:"assertion" validate:"required"`
}

type loginResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	CSRFToken    string        `json:"csrf_token,omitempty"`
	Account      *identityBody `json:"account,omitempty"`
	IsNewAccount bool          `json:"is_new_account,omitempty"`
}

type identityBody struct {
	AccountID  string `json:"account_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	AuthMethod string `json:"auth_method"`
}

// Login authenticates an email/password pair and establishes a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		return err
	}
	if !result.Success {
		if result.Message == domain.MsgRateLimited {
			metrics.LoginsRateLimitedTotal.Inc()
			metrics.LoginsTotal.WithLabelValues("password", "denied").Inc()
			return c.JSON(http.StatusTooManyRequests, loginResponse{Success: false, Message: result.Message})
		}
		metrics.LoginsTotal.WithLabelValues("password", "denied").Inc()
		return c.JSON(http.StatusUnauthorized, loginResponse{Success: false, Message: result.Message})
	}

	metrics.LoginsTotal.WithLabelValues("password", "success").Inc()
	h.setSessionCookie(c, result.Session.ID)
	return c.JSON(http.StatusOK, successBody(result))
}

// LoginSSO accepts the gateway's identity assertion and logs the verified
// claims in, auto-provisioning unknown identities.
func (h *AuthHandler) LoginSSO(c echo.Context) error {
	var req ssoLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims, err := h.parseAssertion(req.Assertion)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("sso", "denied").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid sso assertion")
	}

	result, err := h.auth.LoginWithSSO(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	if !result.Success {
		metrics.LoginsTotal.WithLabelValues("sso", "denied").Inc()
		return c.JSON(http.StatusUnauthorized, loginResponse{Success: false, Message: result.Message})
	}

	metrics.LoginsTotal.WithLabelValues("sso", "success").Inc()
	h.setSessionCookie(c, result.Session.ID)
	return c.JSON(http.StatusOK, successBody(result))
}

// Logout destroys the active session and expires the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	if sess != nil {
		if err := h.sessions.Destroy(c.Request().Context(), sess.ID); err != nil {
			return err
		}
	}
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Session returns the authenticated identity and its current CSRF token.
func (h *AuthHandler) Session(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	return c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		CSRFToken: sess.CSRFToken,
		Account:   identityOf(sess),
	})
}

// RotateCSRF reissues the session's anti-forgery token.
func (h *AuthHandler) RotateCSRF(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	token, err := h.csrf.Issue(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"csrf_token": token})
}

// ssoAssertionClaims is the payload the gateway signs. The gateway has
// already validated the provider's token; this core only checks that the
// assertion really came from the gateway.
type ssoAssertionClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

func (h *AuthHandler) parseAssertion(assertion string) (ports.SSOClaims, error) {
	claims := &ssoAssertionClaims{}
	token, err := jwt.ParseWithClaims(assertion, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return h.ssoSecret, nil
	})
	if err != nil || !token.Valid {
		return ports.SSOClaims{}, jwt.ErrTokenSignatureInvalid
	}
	return ports.SSOClaims{
		Email:      claims.Email,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Subject:    claims.Subject,
	}, nil
}

func (h *AuthHandler) setSessionCookie(c echo.Context, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func successBody(result *ports.LoginResult) loginResponse {
	return loginResponse{
		Success:      true,
		Message:      result.Message,
		CSRFToken:    result.Session.CSRFToken,
		Account:      identityOf(result.Session),
		IsNewAccount: result.IsNewAccount,
	}
}

func identityOf(sess *domain.Session) *identityBody {
	return &identityBody{
		AccountID:  sess.AccountID,
		Email:      sess.Email,
		Role:       string(sess.Role),
		GivenName:  sess.GivenName,
		FamilyName: sess.FamilyName,
		AuthMethod: string(sess.AuthMethod),
	}
}
