package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory session store, used by unit tests as the
// double for the Mongo-backed store (Design Notes §9: "Capability-ish
// repository stubs in tests").
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemoryStore constructs an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session), now: time.Now}
}

// Issue creates a new session for userID with the given TTL.
func (m *MemoryStore) Issue(ctx context.Context, userID string, ttl time.Duration) (Session, error) {
	token, err := NewToken()
	if err != nil {
		return Session{}, err
	}
	s := Session{Token: token, UserID: userID, ExpiresAt: m.now().Add(ttl)}

	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()

	return s, nil
}

// Get returns the session for token, or nil if absent or expired.
func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return nil, nil
	}
	cp := s
	return &cp, nil
}

// Revoke deletes a session. Idempotent.
func (m *MemoryStore) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
