package fs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"
)

// Real implements [FS] using the real filesystem.
//
// Methods are passthroughs to the [os] package except [Real.WriteFileAtomic],
// which uses atomic file writes, and [Real.Lock], which provides flock-based
// locking.
type Real struct {
	lockTimeout time.Duration
}

// NewReal returns a new [Real] filesystem.
func NewReal() *Real {
	return &Real{lockTimeout: defaultLockTimeout}
}

// A passthrough wrapper for [os.ReadFile].
func (r *Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (r *Real) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	err := atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return err
	}

	// atomic.WriteFile leaves the temp file's mode on the result.
	return os.Chmod(path, perm)
}

// A passthrough wrapper for [os.MkdirAll].
func (r *Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// A passthrough wrapper for [os.Remove].
func (r *Real) Remove(path string) error {
	return os.Remove(path)
}

const (
	defaultLockTimeout = 2 * time.Second
	lockPollInterval   = 10 * time.Millisecond
	lockPerms          = 0o644
	dirPerms           = 0o755
)

// realLock holds an exclusive file lock.
type realLock struct {
	file *os.File
}

func (l *realLock) Close() error {
	if l.file == nil {
		return nil
	}

	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil

	return err
}

// Lock takes an exclusive flock on "<dir>/.locks/<base>.lock".
// Lock files live in a subdirectory so the data directory's listing only
// contains stored keys. The lock file is never unlinked, so the inode a
// waiter opened is always the one a holder locked.
func (r *Real) Lock(path string) (Locker, error) {
	locksDir := filepath.Join(filepath.Dir(path), ".locks")
	lockPath := filepath.Join(locksDir, filepath.Base(path)+".lock")

	err := os.MkdirAll(locksDir, dirPerms)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, lockPerms)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(r.lockTimeout)

	for {
		err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &realLock{file: file}, nil
		}

		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			_ = file.Close()

			return nil, err
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, os.ErrDeadlineExceeded
		}

		time.Sleep(lockPollInterval)
	}
}

// Compile-time interface check.
var _ FS = (*Real)(nil)
