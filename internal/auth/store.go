package auth

import (
	"errors"
	"sync"
)

// ErrNoToken is returned by Store.Get when no token is stored.
var ErrNoToken = errors.New("no stored token")

// Store holds the client's single auth credential. It is the only
// client-side state that survives a restart. Implementations must be
// safe for concurrent use: every outgoing request reads it, and any
// request may clear it on a 401.
type Store interface {
	// Get returns the stored token, or ErrNoToken when absent.
	Get() (Token, error)

	// Set stores the token, replacing any existing one.
	Set(tok Token) error

	// Clear removes the stored token. It reports whether a token was
	// actually removed, so that concurrent 401 handlers can tell which
	// one of them did the clearing.
	Clear() (bool, error)
}

// MemoryStore is an in-memory Store for tests and non-persistent runs.
type MemoryStore struct {
	mu  sync.Mutex
	tok *Token
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored token, or ErrNoToken when absent.
func (s *MemoryStore) Get() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok == nil {
		return Token{}, ErrNoToken
	}
	return *s.tok, nil
}

// Set stores the token.
func (s *MemoryStore) Set(tok Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tok = &tok
	return nil
}

// Clear removes the stored token and reports whether one was present.
func (s *MemoryStore) Clear() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	had := s.tok != nil
	s.tok = nil
	return had, nil
}
