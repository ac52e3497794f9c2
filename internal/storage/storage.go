// Package storage provides the local persistent key-value store backing
// session identity and conversation history.
//
// Responsibilities: durable per-profile storage of small JSON values,
// keyed by name, surviving process restarts.
//
// Design: the Store interface is defined here and consumed by the session
// and conversation packages. Two implementations are provided:
//   - File: one file per key under the profile storage directory,
//     cross-process writes serialized with an advisory file lock.
//   - Memory: in-memory map, used in tests and as the degraded fallback
//     when the filesystem is unavailable.
//
// Concurrent writers to the same key follow last-writer-wins semantics.
// This is an accepted limitation, not a guarantee.
package storage

import "errors"

// Sentinel errors for store operations.
// These errors are part of the Store's public API and should be checked
// using errors.Is().
var (
	// ErrNotFound indicates the requested key has no stored value.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey indicates the key is empty or contains path separators.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Store is the persistent key-value contract consumed by session and
// conversation. Values are opaque bytes; callers own serialization.
//
// Implementations must never panic on malformed stored data: a value
// that cannot be read surfaces as ErrNotFound or a wrapped read error,
// and the caller falls back to a fresh state.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes the value stored under key.
	// Deleting an absent key is not an error.
	Delete(key string) error
}

// validKey reports whether key is usable as a storage key.
// Keys become file names in the File implementation, so path
// separators and traversal sequences are rejected.
func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '/', '\\', 0:
			return false
		}
	}
	return key != "." && key != ".."
}
