package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/venturely/venturely/internal/log"
)

// File is a Store backed by one file per key under a profile directory.
//
// Writes go through a temp file followed by rename, so a crashed process
// never leaves a half-written value behind. Cross-process access is
// serialized with an advisory lock file in the same directory; within a
// process, callers may use File concurrently.
type File struct {
	dir    string
	lock   *flock.Flock
	logger log.Logger
}

// NewFile creates a file-backed store rooted at dir, creating the
// directory (0750) if needed.
//
// Parameters:
//   - dir: Profile storage directory (e.g., ~/.venturely/storage)
//   - logger: Logger for debugging (nil = use Nop)
func NewFile(dir string, logger log.Logger) (*File, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	return &File{
		dir:    dir,
		lock:   flock.New(filepath.Join(dir, ".lock")),
		logger: logger,
	}, nil
}

// Get returns the value stored under key, or ErrNotFound.
func (f *File) Get(key string) ([]byte, error) {
	if !validKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	if err := f.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	defer f.unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return data, nil
}

// Set stores value under key, replacing any previous value.
// The write is atomic: temp file then rename.
func (f *File) Set(key string, value []byte) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	defer f.unlock()

	tmp, err := os.CreateTemp(f.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for key %q: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for key %q: %w", key, err)
	}

	if err := os.Rename(tmpName, f.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to store key %q: %w", key, err)
	}

	f.logger.Debug("stored value", "key", key, "bytes", len(value))
	return nil
}

// Delete removes the value stored under key. Absent keys are a no-op.
func (f *File) Delete(key string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	defer f.unlock()

	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	f.logger.Debug("deleted value", "key", key)
	return nil
}

// path returns the file path for a key.
func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// unlock releases the advisory lock, logging failures.
func (f *File) unlock() {
	if err := f.lock.Unlock(); err != nil {
		f.logger.Warn("failed to release storage lock", "error", err)
	}
}
