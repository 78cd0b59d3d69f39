package ports

import (
	"context"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// SessionStore persists server-side session state keyed by session id.
// Implementations provide per-key read/write; concurrent requests for the
// same session may race on LastActivity, which only shortens the effective
// idle window and is accepted.
type SessionStore interface {
	// Get returns domain.ErrSessionNotFound when no session exists for id.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}
