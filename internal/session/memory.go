package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	cur Session
	ok  bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur, m.ok, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	if !s.Valid() {
		return ErrIncomplete
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur, m.ok = s, true
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur, m.ok = Session{}, false
	return nil
}
