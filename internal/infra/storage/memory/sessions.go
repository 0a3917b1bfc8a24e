package memory

import (
	"context"
	"sync"

	"rentzy/internal/app/services/auth"
)

// SessionStore keeps bearer sessions in memory.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]auth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[string]auth.Session)}
}

func (s *SessionStore) Save(ctx context.Context, session auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.Token] = session
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (auth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.items[token]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}
