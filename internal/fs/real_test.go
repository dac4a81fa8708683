package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// Real FS Tests
//
// We're NOT testing os.ReadFile, os.MkdirAll etc (that's Go's job).
// We ARE testing:
//   - Lock() - our locking implementation
//   - WriteFileAtomic() - our atomic write wrapper
// =============================================================================

func TestReal_WriteFileAtomic_ReplacesContentAndSetsPerm(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	path := filepath.Join(t.TempDir(), "todos")

	if err := fsys.WriteFileAtomic(path, []byte("first"), 0o600); err != nil {
		t.Fatalf("first write: %v", err)
	}

	if err := fsys.WriteFileAtomic(path, []byte("second"), 0o600); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got, want := string(data), "second"; got != want {
		t.Fatalf("content=%q, want=%q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if got, want := info.Mode().Perm(), os.FileMode(0o600); got != want {
		t.Fatalf("perm=%v, want=%v", got, want)
	}
}

func TestReal_Lock_CreatesLockFileInLocksDir(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	dir := t.TempDir()

	lock, err := fsys.Lock(filepath.Join(dir, "todos"))
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer lock.Close()

	if _, err := os.Stat(filepath.Join(dir, ".locks", "todos.lock")); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}
}

func TestReal_Lock_TimesOutWhileHeld(t *testing.T) {
	t.Parallel()

	holder := NewReal()
	path := filepath.Join(t.TempDir(), "todos")

	lock, err := holder.Lock(path)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer lock.Close()

	// A second open file description contends with the first flock.
	waiter := &Real{lockTimeout: 50 * time.Millisecond}

	_, err = waiter.Lock(path)
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("err=%v, want=%v", err, os.ErrDeadlineExceeded)
	}
}

func TestReal_Lock_ReacquireAfterClose(t *testing.T) {
	t.Parallel()

	fsys := &Real{lockTimeout: 200 * time.Millisecond}
	path := filepath.Join(t.TempDir(), "todos")

	first, err := fsys.Lock(path)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}

	second, err := fsys.Lock(path)
	if err != nil {
		t.Fatalf("second lock: %v", err)
	}

	_ = second.Close()
}
