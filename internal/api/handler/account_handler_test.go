package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campusverein/member-portal/internal/api/middleware"
	"github.com/campusverein/member-portal/internal/core/domain"
)

type stubAccountService struct {
	createFn   func(ctx context.Context, actor *domain.Session, email, givenName, familyName, password string) (string, error)
	passwordFn func(ctx context.Context, accountID, currentPassword, newPassword string) error
	deleteFn   func(ctx context.Context, accountID, confirmEmail string, session *domain.Session) error
}

func (s *stubAccountService) CreateAccount(ctx context.Context, actor *domain.Session, email, givenName, familyName, password string) (string, error) {
	return s.createFn(ctx, actor, email, givenName, familyName, password)
}

func (s *stubAccountService) UpdatePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	return s.passwordFn(ctx, accountID, currentPassword, newPassword)
}

func (s *stubAccountService) UpdateEmail(context.Context, string, string, string) (bool, error) {
	return true, nil
}

func (s *stubAccountService) UpdateUserRole(context.Context, *domain.Session, string, domain.Role) error {
	return nil
}

func (s *stubAccountService) ExportUserData(context.Context, string) (*domain.UserDataExport, error) {
	return &domain.UserDataExport{}, nil
}

func (s *stubAccountService) DeleteUserAccount(ctx context.Context, accountID, confirmEmail string, session *domain.Session) error {
	return s.deleteFn(ctx, accountID, confirmEmail, session)
}

func requestWithSession(t *testing.T, method, body, paramID string, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, "/accounts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	if sess != nil {
		middleware.SetSession(c, sess)
	}
	return c, rec
}

func TestAccountHandler_Create_Success(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(_ context.Context, actor *domain.Session, email, givenName, familyName, password string) (string, error) {
			if actor == nil || actor.Role != domain.RoleVorstand {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			if email != "neu@verein.de" || givenName != "Nora" {
				t.Fatalf("unexpected args: %s %s %s", email, givenName, familyName)
			}
			return "acc-neu", nil
		},
	}
	handler := NewAccountHandler(stub)

	body := `{"email":"neu@verein.de","given_name":"Nora","family_name":"Neumann","password":"anfang123"}`
	c, rec := requestWithSession(t, http.MethodPost, body, "", &domain.Session{ID: "sess-1", AccountID: "acc-vorstand", Role: domain.RoleVorstand})

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "acc-neu") {
		t.Fatalf("expected new id in response: %s", rec.Body.String())
	}
}

func TestAccountHandler_Create_InvalidPayload(t *testing.T) {
	handler := NewAccountHandler(&stubAccountService{})

	body := `{"email":"kein-email","given_name":"Nora","family_name":"Neumann","password":"anfang123"}`
	c, _ := requestWithSession(t, http.MethodPost, body, "", &domain.Session{Role: domain.RoleVorstand})

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAccountHandler_UpdatePassword_OwnAccountOnly(t *testing.T) {
	handler := NewAccountHandler(&stubAccountService{
		passwordFn: func(context.Context, string, string, string) error {
			t.Fatal("service must not be reached for a foreign account")
			return nil
		},
	})

	body := `{"current_password":"alt","new_password":"Neu&Sicher2026!"}`
	sess := &domain.Session{ID: "sess-1", AccountID: "acc-1", Role: domain.RoleAdmin}
	c, _ := requestWithSession(t, http.MethodPut, body, "acc-2", sess)

	// Even an admin may not rotate someone else's password through the
	// self-service route.
	err := handler.UpdatePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestAccountHandler_UpdatePassword_Unauthenticated(t *testing.T) {
	handler := NewAccountHandler(&stubAccountService{})

	body := `{"current_password":"alt","new_password":"Neu&Sicher2026!"}`
	c, _ := requestWithSession(t, http.MethodPut, body, "acc-1", nil)

	err := handler.UpdatePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAccountHandler_UpdatePassword_Success(t *testing.T) {
	called := false
	handler := NewAccountHandler(&stubAccountService{
		passwordFn: func(_ context.Context, accountID, current, next string) error {
			called = true
			if accountID != "acc-1" || current != "alt" || next != "Neu&Sicher2026!" {
				t.Fatalf("unexpected args: %s %s %s", accountID, current, next)
			}
			return nil
		},
	})

	body := `{"current_password":"alt","new_password":"Neu&Sicher2026!"}`
	sess := &domain.Session{ID: "sess-1", AccountID: "acc-1", Role: domain.RoleMitglied}
	c, rec := requestWithSession(t, http.MethodPut, body, "acc-1", sess)

	if err := handler.UpdatePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected service call and 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Delete_PassesConfirmation(t *testing.T) {
	var gotConfirm string
	handler := NewAccountHandler(&stubAccountService{
		deleteFn: func(_ context.Context, accountID, confirmEmail string, session *domain.Session) error {
			gotConfirm = confirmEmail
			if accountID != "acc-1" || session == nil {
				t.Fatalf("unexpected args: %s %+v", accountID, session)
			}
			return nil
		},
	})

	body := `{"confirm_email":"anna@verein.de"}`
	sess := &domain.Session{ID: "sess-1", AccountID: "acc-1", Role: domain.RoleMitglied}
	c, rec := requestWithSession(t, http.MethodDelete, body, "acc-1", sess)

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotConfirm != "anna@verein.de" {
		t.Fatalf("confirmation not passed through, got %q", gotConfirm)
	}
}

func TestAccountHandler_Delete_DomainErrorPropagates(t *testing.T) {
	handler := NewAccountHandler(&stubAccountService{
		deleteFn: func(context.Context, string, string, *domain.Session) error {
			return domain.ErrConfirmationMismatch
		},
	})

	body := `{"confirm_email":"falsch@verein.de"}`
	sess := &domain.Session{ID: "sess-1", AccountID: "acc-1"}
	c, _ := requestWithSession(t, http.MethodDelete, body, "acc-1", sess)

	// The central error handler maps domain errors to status codes; the
	// handler itself just lets them through.
	if err := handler.Delete(c); !errors.Is(err, domain.ErrConfirmationMismatch) {
		t.Fatalf("expected ErrConfirmationMismatch, got %v", err)
	}
}
