package kv

import "errors"

var (
	// ErrInvalidKey reports a key that cannot be stored.
	ErrInvalidKey = errors.New("invalid key")

	// ErrUnknownBackend reports a backend name outside the supported set.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrClosed reports use of a store after Close.
	ErrClosed = errors.New("store closed")
)
