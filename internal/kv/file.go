package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/taskcal/internal/fs"
)

const (
	filePerms = 0o600
	dirPerms  = 0o750
)

// File stores each key as a file named after the key inside a directory.
// Writes replace the file atomically under an exclusive lock.
type File struct {
	dir string
	fs  fs.FS
}

// OpenFile creates dir if needed and returns a [File] backed by the real
// filesystem.
func OpenFile(dir string) (*File, error) {
	return OpenFileFS(fs.NewReal(), dir)
}

// OpenFileFS is [OpenFile] with an explicit filesystem.
func OpenFileFS(fsys fs.FS, dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("open file storage: directory is empty")
	}

	err := fsys.MkdirAll(dir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("open file storage: create %s: %w", dir, err)
	}

	return &File{dir: filepath.Clean(dir), fs: fsys}, nil
}

// Get reads the file named key. A missing file is not an error.
func (f *File) Get(key string) (string, bool, error) {
	err := ValidateKey(key)
	if err != nil {
		return "", false, err
	}

	data, err := f.fs.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("read %s: %w", key, err)
	}

	return string(data), true, nil
}

// Set replaces the file named key atomically while holding its lock.
func (f *File) Set(key, value string) error {
	err := ValidateKey(key)
	if err != nil {
		return err
	}

	path := f.path(key)

	lock, err := f.fs.Lock(path)
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer lock.Close()

	err = f.fs.WriteFileAtomic(path, []byte(value), filePerms)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

// Remove deletes the file named key. Removing a missing key succeeds.
func (f *File) Remove(key string) error {
	err := ValidateKey(key)
	if err != nil {
		return err
	}

	path := f.path(key)

	lock, err := f.fs.Lock(path)
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer lock.Close()

	err = f.fs.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}

	return nil
}

// Close is a no-op; File holds no open handles between calls.
func (f *File) Close() error {
	return nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key)
}

var _ Storage = (*File)(nil)
