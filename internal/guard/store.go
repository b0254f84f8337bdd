package guard

import "sync"

// MemoryStore is an in-memory TokenStore
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	pages []string
}

// NewMemoryStore creates a store holding token and its cached access pages
func NewMemoryStore(token string, pages []string) *MemoryStore {
	return &MemoryStore{token: token, pages: pages}
}

// Token returns the stored token
func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// AccessPages returns the cached permitted paths
func (s *MemoryStore) AccessPages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.pages...)
}

// Set replaces the stored credentials
func (s *MemoryStore) Set(token string, pages []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.pages = pages
}

// Clear drops the stored credentials
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.pages = nil
}
