package ports

import (
	"context"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// SessionManager owns the session lifecycle: creation on login, per-request
// timeout and consistency checks, destruction on logout.
type SessionManager interface {
	Create(ctx context.Context, account *domain.Account, method domain.AuthMethod) (*domain.Session, error)
	// CheckTimeout reports whether the session is still within the idle
	// window. A live session gets its activity timestamp refreshed; an
	// expired one is destroyed and must be treated as dead by the caller.
	CheckTimeout(ctx context.Context, session *domain.Session) (bool, error)
	// Reconcile re-fetches the account behind the session and reports
	// whether the session may still be trusted. Critical mismatches
	// (account gone, email changed out-of-band) destroy the session;
	// role and name drift are silently refreshed.
	Reconcile(ctx context.Context, session *domain.Session) (bool, error)
	Destroy(ctx context.Context, sessionID string) error
}
