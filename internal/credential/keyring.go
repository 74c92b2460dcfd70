package credential

import (
	"fmt"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName = "jiracloud"
	refPrefix   = "keyring:"
)

// Store reads credentials from a keyring.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the system keyring.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/jiracloud/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("jiracloud-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewStore(ring), nil
}

// NewStore wraps an already opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Get returns the credential stored under key.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// IsRef reports whether v is a "keyring:<key>" reference.
func IsRef(v string) bool {
	return strings.HasPrefix(v, refPrefix)
}

// RefKey returns the key of a "keyring:<key>" reference.
func RefKey(v string) (string, bool) {
	return strings.CutPrefix(v, refPrefix)
}
