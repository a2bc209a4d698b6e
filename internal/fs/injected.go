package fs

import (
	"errors"
	iofs "io/fs"
	"sync"
)

// IsInjected reports whether err (or any error it wraps) was produced by
// [Chaos] rather than the real filesystem. Returns false if err is nil.
//
// Injected errors are plain *fs.PathError values with a syscall.Errno, so
// errors.Is(err, os.ErrNotExist) and friends keep working; they are tracked
// by pointer identity to tell them apart from real ones.
func IsInjected(err error) bool {
	if err == nil {
		return false
	}

	var pathErr *iofs.PathError
	if errors.As(err, &pathErr) {
		_, ok := injectedPathErrors.Load(pathErr)

		return ok
	}

	return false
}

var injectedPathErrors sync.Map // map[*fs.PathError]struct{}

// markInjectedPathError registers a PathError as injected.
func markInjectedPathError(err *iofs.PathError) {
	injectedPathErrors.Store(err, struct{}{})
}
