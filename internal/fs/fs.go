// Package fs provides the filesystem abstraction used by the file-backed
// key-value store, plus a fault-injecting implementation for tests.
//
// The main types are:
//   - [FS]: interface for the handful of operations the store needs
//   - [Real]: production implementation using [os] and atomic replace
//   - [Chaos]: testing implementation that injects failures
//
// Example usage:
//
//	fsys := fs.NewReal()
//	if err := fsys.MkdirAll(dir, 0o750); err != nil {
//	    return err
//	}
//
//	err := fsys.WriteFileAtomic(filepath.Join(dir, "todos.json"), data, 0o600)
package fs

import (
	"os"
)

// FS defines the filesystem operations needed to keep one file per key.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	// Returns an error satisfying errors.Is(err, os.ErrNotExist) for missing files.
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces path with data.
	// Readers see either the old content or the new content, never a mix.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Remove deletes a file or empty directory. See [os.Remove].
	Remove(path string) error

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}
