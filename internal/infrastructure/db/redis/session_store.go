package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// SessionStore persists sessions as JSON values under session:<id>, each
// with a TTL slightly beyond the idle timeout. The TTL is a backstop; the
// authoritative idle check is the session manager's timeout comparison.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// redisSession mirrors domain.Session but includes the CSRF token, which
// the domain type deliberately excludes from JSON.
type redisSession struct {
	ID           string            `json:"id"`
	AccountID    string            `json:"account_id"`
	Role         domain.Role       `json:"role"`
	Email        string            `json:"email"`
	GivenName    string            `json:"given_name"`
	FamilyName   string            `json:"family_name"`
	AuthMethod   domain.AuthMethod `json:"auth_method"`
	CSRFToken    string            `json:"csrf_token"`
	LastActivity time.Time         `json:"last_activity"`
}

// NewSessionStore builds a store whose entries outlive the idle timeout by
// half, so a session is never evicted while still logically alive.
func NewSessionStore(client *redis.Client, idleTimeout time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: idleTimeout + idleTimeout/2}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &domain.Session{
		ID:           rs.ID,
		AccountID:    rs.AccountID,
		Role:         rs.Role,
		Email:        rs.Email,
		GivenName:    rs.GivenName,
		FamilyName:   rs.FamilyName,
		AuthMethod:   rs.AuthMethod,
		CSRFToken:    rs.CSRFToken,
		LastActivity: rs.LastActivity,
	}, nil
}

func (s *SessionStore) Put(ctx context.Context, sess *domain.Session) error {
	raw, err := json.Marshal(redisSession{
		ID:           sess.ID,
		AccountID:    sess.AccountID,
		Role:         sess.Role,
		Email:        sess.Email,
		GivenName:    sess.GivenName,
		FamilyName:   sess.FamilyName,
		AuthMethod:   sess.AuthMethod,
		CSRFToken:    sess.CSRFToken,
		LastActivity: sess.LastActivity,
	})
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return fmt.Sprintf("session:%s", id)
}
