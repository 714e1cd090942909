package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/99designs/keyring"
)

const (
	serviceName = "teamboard"
	tokenKey    = "api-token"
)

// KeyringStore persists the auth token in the system keyring so a
// session survives a client restart.
type KeyringStore struct {
	mu sync.Mutex
}

// NewKeyringStore creates a keyring-backed token store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/teamboard/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("teamboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves the stored token from the system keyring.
func (s *KeyringStore) Get() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ring, err := openKeyring()
	if err != nil {
		return Token{}, err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Token{}, ErrNoToken
		}
		return Token{}, fmt.Errorf("getting stored token: %w", err)
	}

	return ParseToken(string(item.Data)), nil
}

// Set stores the token in the system keyring.
func (s *KeyringStore) Set(tok Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(tok.Raw),
	})
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	return nil
}

// Clear removes the stored token from the system keyring and reports
// whether one was present.
func (s *KeyringStore) Clear() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ring, err := openKeyring()
	if err != nil {
		return false, err
	}

	err = ring.Remove(tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("clearing stored token: %w", err)
	}

	return true, nil
}
