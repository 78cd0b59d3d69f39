package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
)

// CSRFGuard issues and verifies per-session anti-forgery tokens. Tokens
// live only inside the session and are replaced wholesale on each login or
// explicit reissue; verification never rotates them.
type CSRFGuard struct {
	tokens ports.TokenSource
	store  ports.SessionStore
}

func NewCSRFGuard(tokens ports.TokenSource, store ports.SessionStore) *CSRFGuard {
	return &CSRFGuard{tokens: tokens, store: store}
}

// Issue replaces the session's CSRF token with a fresh one and persists it.
func (g *CSRFGuard) Issue(ctx context.Context, sess *domain.Session) (string, error) {
	token, err := g.tokens.Hex(csrfTokenBytes)
	if err != nil {
		return "", fmt.Errorf("mint csrf token: %w", err)
	}
	sess.CSRFToken = token
	if err := g.store.Put(ctx, sess); err != nil {
		return "", fmt.Errorf("persist csrf token: %w", err)
	}
	return token, nil
}

// Verify compares candidate against the session's stored token in constant
// time. A session without a token never verifies.
func (g *CSRFGuard) Verify(sess *domain.Session, candidate string) bool {
	if sess == nil || sess.CSRFToken == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sess.CSRFToken), []byte(candidate)) == 1
}
