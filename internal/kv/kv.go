// Package kv provides the durable key-value medium tasks and credentials are
// stored in. Values are opaque strings; callers own their encoding.
package kv

import (
	"errors"
	"fmt"
	"regexp"
)

// Storage is a string key-value store. Get reports a missing key with
// ok == false and a nil error.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Errors returned by storage backends. Callers match them with [errors.Is].
var (
	// ErrInvalidKey reports a key [ValidateKey] rejects.
	ErrInvalidKey = errors.New("invalid key")

	// ErrUnknownBackend reports a backend name [Open] does not know.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrQuotaExceeded reports a write that would exceed the medium's capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrClosed reports use of a backend after Close.
	ErrClosed = errors.New("storage is closed")

	// ErrSchemaTooNew reports a database written by a newer tc. It is left
	// untouched.
	ErrSchemaTooNew = errors.New("storage schema is newer than supported")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateKey rejects keys that cannot be used as file names.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return nil
}

// Open returns the backend named by backend rooted at dir.
func Open(backend, dir string) (Storage, error) {
	switch backend {
	case BackendFile:
		return OpenFile(dir)
	case BackendSQLite:
		return OpenSQLite(dir)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}
