// Package tokens persists the session token pair. Stores are constructed
// explicitly and injected, there is no package-level state.
package tokens

import "sync"

// Store holds the access/refresh token pair for the current session.
// Save and Clear are atomic: a reader never observes a stale access token
// next to a fresh refresh token or the reverse. Either both tokens are
// present or neither is.
type Store interface {
	Save(access, refresh string) error
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	Clear() error
}

// MemoryStore keeps the pair in memory. Useful for tests and throwaway
// sessions, nothing survives the process.
type MemoryStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = access
	s.refresh = refresh

	return nil
}

func (s *MemoryStore) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.access, s.access != ""
}

func (s *MemoryStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refresh, s.refresh != ""
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = ""
	s.refresh = ""

	return nil
}
