package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore for testing.
type CredentialStore struct {
	mu      sync.RWMutex
	token   *domain.AccessToken
	saveErr error
	saves   int
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// NewCredentialStoreWith creates a store already holding token.
func NewCredentialStoreWith(token domain.AccessToken) *CredentialStore {
	s := &CredentialStore{}
	s.token = clone(token)
	return s
}

// FailSaves makes every subsequent Save return err. Pass nil to stop failing.
func (s *CredentialStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Saves returns how many times Save succeeded.
func (s *CredentialStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Load returns a copy of the stored token.
func (s *CredentialStore) Load(_ context.Context) (*domain.AccessToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, false
	}
	return clone(*s.token), true
}

// Save replaces the stored token.
func (s *CredentialStore) Save(_ context.Context, token domain.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = clone(token)
	s.saves++
	return nil
}

// Clear removes the stored token.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}

// Location returns a marker for the in-memory store.
func (s *CredentialStore) Location() string {
	return ":memory:"
}

func clone(token domain.AccessToken) *domain.AccessToken {
	token.Raw = maps.Clone(token.Raw)
	return &token
}
