package session

import (
	"context"
	"sync"

	"mealtrack/internal/auth/domain/model"
	"mealtrack/internal/auth/domain/repository"
)

// MemoryStore holds the session in process memory. This is the default
// store; sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	session *model.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores the session, replacing any previous one.
func (s *MemoryStore) Save(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		return nil
	}
	cp := *session
	s.session = &cp
	return nil
}

// Current returns the stored session, or nil when logged out.
func (s *MemoryStore) Current(_ context.Context) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, nil
	}
	cp := *s.session
	return &cp, nil
}

// Clear removes the stored session.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// Ensure MemoryStore implements SessionStore
var _ repository.SessionStore = (*MemoryStore)(nil)
