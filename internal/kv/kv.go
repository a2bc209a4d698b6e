// Package kv provides the key-value capability the persistence adapter
// writes through: get, set and remove on string keys holding text values.
//
// Three backends exist:
//   - [Memory]: process-local map, for tests and throwaway sessions
//   - [File]: one file per key, replaced atomically
//   - [SQLite]: one row per key in a SQLite database
package kv

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Store is a string key-value store with atomic per-key replace.
type Store interface {
	// Get returns the value for key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// Backend names a [Store] implementation.
type Backend string

// Backends.
const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

var backends = []Backend{BackendFile, BackendSQLite, BackendMemory}

// ParseBackend converts s to a [Backend].
func ParseBackend(s string) (Backend, error) {
	b := Backend(s)
	if slices.Contains(backends, b) {
		return b, nil
	}

	return "", fmt.Errorf("%w: %q (want %s)", ErrUnknownBackend, s, backendList())
}

func backendList() string {
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = string(b)
	}

	return strings.Join(names, "|")
}

// Open creates the store for backend rooted at dir. dir is created if needed
// (memory ignores it).
func Open(ctx context.Context, backend Backend, dir string) (Store, error) {
	switch backend {
	case BackendFile:
		return OpenFile(dir)
	case BackendSQLite:
		return OpenSQLite(ctx, dir)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// ValidateKey rejects keys that are empty or could escape a directory when
// used as a file name.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case key == "." || key == "..":
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	case strings.ContainsAny(key, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, key)
	case strings.HasPrefix(key, "."):
		return fmt.Errorf("%w: %q must not start with a dot", ErrInvalidKey, key)
	}

	return nil
}

func mkdirAll(dir string) error {
	return os.MkdirAll(dir, dirPerms)
}
