// Package fs provides the filesystem operations the file storage backend needs,
// behind an interface so tests can swap in failing implementations.
//
// The main types are:
//   - [FS]: interface for filesystem operations
//   - [Real]: production implementation using [os], atomic replace and flock
//
// Example usage:
//
//	fsys := fs.NewReal()
//
//	lock, err := fsys.Lock(path)
//	if err != nil {
//	    return err
//	}
//	defer lock.Close()
//
//	err = fsys.WriteFileAtomic(path, data, 0o600)
package fs

import (
	"io"
	"os"
)

// Locker represents a held file lock.
// Call [Locker.Close] to release the lock.
type Locker interface {
	io.Closer
}

// FS defines filesystem operations for reading, writing, and managing files.
//
// All methods mirror their [os] package equivalents except
// [FS.WriteFileAtomic] and [FS.Lock].
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename so readers never see a partial file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Remove deletes a file. See [os.Remove].
	Remove(path string) error

	// Lock acquires an exclusive advisory lock guarding path.
	// Blocks until the lock is acquired or returns [os.ErrDeadlineExceeded].
	Lock(path string) (Locker, error)
}
