package lyrics

import (
	"errors"
	"strings"

	"github.com/calvinalkan/taskcal/internal/kv"
)

// KeyStorageKey is the storage key of the saved API key.
const KeyStorageKey = "geminiApiKey"

// ErrEmptyKey is returned by [KeyStore.Save] for a blank key.
var ErrEmptyKey = errors.New("API key cannot be empty")

// KeyStore keeps the API key next to the tasks.
type KeyStore struct {
	storage kv.Storage
}

// NewKeyStore returns a KeyStore backed by storage.
func NewKeyStore(storage kv.Storage) KeyStore {
	return KeyStore{storage: storage}
}

// Load returns the saved key, or "" if none.
func (k KeyStore) Load() (string, error) {
	v, _, err := k.storage.Get(KeyStorageKey)

	return v, err
}

// Save stores key after trimming it.
func (k KeyStore) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}

	return k.storage.Set(KeyStorageKey, key)
}

// Clear removes the saved key. Clearing when none is saved succeeds.
func (k KeyStore) Clear() error {
	return k.storage.Remove(KeyStorageKey)
}

// Mask hides all but the last four characters of key.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}

	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
