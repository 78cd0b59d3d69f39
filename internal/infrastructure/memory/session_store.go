// Package memory provides in-process implementations of the session store
// and login rate limiter. They back local development and tests; production
// deployments use the Redis implementations.
package memory

import (
	"context"
	"sync"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// SessionStore keeps sessions in a mutex-guarded map. Values are copied on
// the way in and out so callers never share mutable state with the store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := sess
	return &out, nil
}

func (s *SessionStore) Put(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
