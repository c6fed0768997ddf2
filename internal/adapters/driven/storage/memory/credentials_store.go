package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore is an in-memory implementation of driven.CredentialsStore.
// Used for tests and for --ephemeral sessions.
type CredentialsStore struct {
	mu     sync.RWMutex
	creds  domain.Credentials
	saves  int
	clears int
}

// NewCredentialsStore creates a new in-memory credentials store.
func NewCredentialsStore() *CredentialsStore {
	return &CredentialsStore{}
}

// NewCredentialsStoreWith creates a store seeded with the given pair, stored
// as is (quoting included).
func NewCredentialsStoreWith(creds domain.Credentials) *CredentialsStore {
	return &CredentialsStore{creds: creds}
}

// Load returns the stored pair.
func (s *CredentialsStore) Load(_ context.Context) (domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, nil
}

// Save replaces the stored pair.
func (s *CredentialsStore) Save(_ context.Context, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.saves++
	return nil
}

// Clear removes the stored pair.
func (s *CredentialsStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = domain.Credentials{}
	s.clears++
	return nil
}

// Saves returns how many times Save was called.
func (s *CredentialsStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Clears returns how many times Clear was called.
func (s *CredentialsStore) Clears() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clears
}
