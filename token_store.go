package spaces

import (
	"context"
	"sync"
)

// DefaultStorageKey is the fixed slot name the token is persisted under.
const DefaultStorageKey = "token"

var _ TokenStore = (*MemoryTokenStore)(nil)

// MemoryTokenStore keeps the token in process memory. It is the default
// store for tests and for hosts that manage persistence themselves.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemoryTokenStore returns an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Save implements TokenStore.
func (s *MemoryTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

// Read implements TokenStore.
func (s *MemoryTokenStore) Read(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return "", ErrTokenNotFound
	}
	return s.token, nil
}

// Clear implements TokenStore. Clearing an empty slot is a no-op.
func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}
