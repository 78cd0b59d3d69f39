package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusverein/member-portal/internal/api/metrics"
	"github.com/campusverein/member-portal/internal/api/middleware"
	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
)

// AccountHandler exposes the account lifecycle: privileged creation,
// self-service credential rotation, role management and the GDPR
// export/erasure operations.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	Email      string `json:"email" validate:"required,email"`
	GivenName  string `json:"given_name" validate:"required"`
	FamilyName string `json:"family_name" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=12"`
}

type updateEmailRequest struct {
	NewEmail        string `json:"new_email" validate:"required,email"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type deleteAccountRequest struct {
	ConfirmEmail string `json:"confirm_email" validate:"required"`
}

// Create inserts a new member account. Requires at least vorstand (gated
// by route middleware and re-checked inside the service).
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := middleware.SessionFromContext(c)
	id, err := h.accounts.CreateAccount(c.Request().Context(), actor, req.Email, req.GivenName, req.FamilyName, req.Password)
	if err != nil {
		return err
	}

	metrics.AccountOperationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

// UpdatePassword rotates the caller's own password.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	accountID, err := h.ownAccountID(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.UpdatePassword(c.Request().Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	metrics.AccountOperationsTotal.WithLabelValues("password_changed").Inc()
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// UpdateEmail changes the caller's own login email after password
// re-verification. The response reports whether the best-effort change
// notification went out.
func (h *AccountHandler) UpdateEmail(c echo.Context) error {
	accountID, err := h.ownAccountID(c)
	if err != nil {
		return err
	}

	var req updateEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	notified, err := h.accounts.UpdateEmail(c.Request().Context(), accountID, req.NewEmail, req.CurrentPassword)
	if err != nil {
		return err
	}

	metrics.AccountOperationsTotal.WithLabelValues("email_changed").Inc()
	return c.JSON(http.StatusOK, map[string]bool{"success": true, "notified": notified})
}

// UpdateRole assigns a new role to any account. Requires at least
// vorstand (gated by route middleware).
func (h *AccountHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role := domain.Role(req.Role)
	if !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	actor := middleware.SessionFromContext(c)
	if err := h.accounts.UpdateUserRole(c.Request().Context(), actor, c.Param("id"), role); err != nil {
		return err
	}

	metrics.AccountOperationsTotal.WithLabelValues("role_changed").Inc()
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Export returns the caller's complete GDPR data-portability payload.
// Only the data subject may export their own data.
func (h *AccountHandler) Export(c echo.Context) error {
	accountID, err := h.ownAccountID(c)
	if err != nil {
		return err
	}

	export, err := h.accounts.ExportUserData(c.Request().Context(), accountID)
	if err != nil {
		return err
	}

	metrics.AccountOperationsTotal.WithLabelValues("exported").Inc()
	return c.JSON(http.StatusOK, export)
}

// Delete erases the caller's own account and every dependent record.
// confirm_email is the proof-of-intent check.
func (h *AccountHandler) Delete(c echo.Context) error {
	accountID, err := h.ownAccountID(c)
	if err != nil {
		return err
	}

	var req deleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := middleware.SessionFromContext(c)
	if err := h.accounts.DeleteUserAccount(c.Request().Context(), accountID, req.ConfirmEmail, sess); err != nil {
		return err
	}

	metrics.AccountOperationsTotal.WithLabelValues("deleted").Inc()
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// ownAccountID resolves the :id route param and enforces that it matches
// the authenticated session. Self-service operations never act on foreign
// accounts, whatever the caller's role.
func (h *AccountHandler) ownAccountID(c echo.Context) (string, error) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, domain.MsgNotAuthenticated)
	}
	id := c.Param("id")
	if id != sess.AccountID {
		return "", echo.NewHTTPError(http.StatusForbidden, domain.MsgForbidden)
	}
	return id, nil
}
