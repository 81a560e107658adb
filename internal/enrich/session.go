package enrich

import (
	"context"
	"sync"

	"github.com/Veraticus/spicewatch/internal/common"
)

// MemorySessionStore keeps the account id in memory.
type MemorySessionStore struct {
	accountID string
	mu        sync.RWMutex
}

// NewMemorySessionStore creates a store, optionally already signed in.
func NewMemorySessionStore(accountID string) *MemorySessionStore {
	return &MemorySessionStore{accountID: accountID}
}

// AccountID returns the signed-in account or common.ErrNoSession.
func (s *MemorySessionStore) AccountID(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.accountID == "" {
		return "", common.ErrNoSession
	}
	return s.accountID, nil
}

// SetAccountID signs an account in.
func (s *MemorySessionStore) SetAccountID(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountID = accountID
}

// Clear signs out.
func (s *MemorySessionStore) Clear() {
	s.SetAccountID("")
}
