package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
)

// csrfTokenBytes is the entropy of a CSRF token: 256 bits, hex-encoded.
const csrfTokenBytes = 32

const defaultIdleTimeout = 30 * time.Minute

type sessionManager struct {
	store       ports.SessionStore
	accounts    ports.AccountRepository
	tokens      ports.TokenSource
	clock       ports.Clock
	idleTimeout time.Duration
	log         zerolog.Logger
}

// NewSessionManager returns a SessionManager backed by the given session
// store. If idleTimeout <= 0, defaultIdleTimeout is used.
func NewSessionManager(
	store ports.SessionStore,
	accounts ports.AccountRepository,
	tokens ports.TokenSource,
	clock ports.Clock,
	idleTimeout time.Duration,
	log zerolog.Logger,
) ports.SessionManager {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}
	return &sessionManager{
		store:       store,
		accounts:    accounts,
		tokens:      tokens,
		clock:       clock,
		idleTimeout: idleTimeout,
		log:         log,
	}
}

// Create materializes session state for a freshly authenticated account.
// The session id is newly generated on every login — an id an attacker may
// have planted before authentication never survives it — and the CSRF
// token is minted fresh alongside.
func (m *sessionManager) Create(ctx context.Context, account *domain.Account, method domain.AuthMethod) (*domain.Session, error) {
	csrf, err := m.tokens.Hex(csrfTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("mint csrf token: %w", err)
	}

	sess := &domain.Session{
		ID:           uuid.NewString(),
		AccountID:    account.ID,
		Role:         account.Role,
		Email:        account.Email,
		GivenName:    account.GivenName,
		FamilyName:   account.FamilyName,
		AuthMethod:   method,
		CSRFToken:    csrf,
		LastActivity: m.clock.Now(),
	}

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

func (m *sessionManager) CheckTimeout(ctx context.Context, sess *domain.Session) (bool, error) {
	now := m.clock.Now()
	if now.Sub(sess.LastActivity) > m.idleTimeout {
		if err := m.store.Delete(ctx, sess.ID); err != nil {
			m.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to delete expired session")
		}
		return false, nil
	}

	sess.LastActivity = now
	if err := m.store.Put(ctx, sess); err != nil {
		return false, fmt.Errorf("refresh session activity: %w", err)
	}
	return true, nil
}

// Reconcile validates the session against the credential store. It runs
// once per authenticated request before the session's role or identity is
// trusted by anything downstream.
func (m *sessionManager) Reconcile(ctx context.Context, sess *domain.Session) (bool, error) {
	account, err := m.accounts.FindByID(ctx, sess.AccountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		// Account deleted out-of-band: the session points at nothing.
		m.destroyQuietly(ctx, sess.ID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reconcile session: %w", err)
	}

	// Email mismatch is critical: the session carries a stale or tampered
	// identity and must not be trusted any further.
	if !strings.EqualFold(account.Email, sess.Email) {
		m.log.Warn().
			Str("session_id", sess.ID).
			Str("account_id", sess.AccountID).
			Msg("session email mismatch, destroying session")
		m.destroyQuietly(ctx, sess.ID)
		return false, nil
	}

	// Role and name drift are non-critical: refresh silently so an
	// out-of-band promotion or revocation takes effect without logout.
	changed := false
	if sess.Role != account.Role {
		m.log.Info().
			Str("account_id", sess.AccountID).
			Str("old_role", string(sess.Role)).
			Str("new_role", string(account.Role)).
			Msg("session role reconciled")
		sess.Role = account.Role
		changed = true
	}
	if sess.GivenName != account.GivenName || sess.FamilyName != account.FamilyName {
		sess.GivenName = account.GivenName
		sess.FamilyName = account.FamilyName
		changed = true
	}

	if changed {
		if err := m.store.Put(ctx, sess); err != nil {
			return false, fmt.Errorf("persist reconciled session: %w", err)
		}
	}
	return true, nil
}

func (m *sessionManager) Destroy(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (m *sessionManager) destroyQuietly(ctx context.Context, sessionID string) {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to destroy invalid session")
	}
}
