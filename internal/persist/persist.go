// Package persist moves a task collection to and from one key of a
// [kv.Store].
//
// Persistence is best effort. Every failure is logged and swallowed: Save
// and Clear become no-ops and Load returns an empty collection. The
// in-memory collection stays the source of truth for the session.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/calvinalkan/agent-todo/internal/kv"
	"github.com/calvinalkan/agent-todo/internal/todo"
)

// DefaultKey is the slot tasks are stored under.
const DefaultKey = "todos"

var errNotArray = errors.New("stored value is not a JSON array")

// Adapter serializes task collections into a single store key.
type Adapter struct {
	store  kv.Store
	key    string
	logger *slog.Logger
}

// Option configures an [Adapter].
type Option func(*Adapter)

// WithKey stores tasks under key instead of [DefaultKey].
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// New returns an adapter over store. A nil logger discards failures.
func New(store kv.Store, logger *slog.Logger, opts ...Option) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &Adapter{store: store, key: DefaultKey}
	for _, opt := range opts {
		opt(a)
	}

	a.logger = logger.With(slog.String("component", "persist"), slog.String("key", a.key))

	return a
}

// Key returns the store key in use.
func (a *Adapter) Key() string {
	return a.key
}

// Save writes tasks as a JSON array. Failures are logged, never returned.
func (a *Adapter) Save(ctx context.Context, tasks []todo.Task) {
	if tasks == nil {
		tasks = []todo.Task{}
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		a.logger.ErrorContext(ctx, "encode tasks failed", slog.Any("err", err))

		return
	}

	err = a.store.Set(ctx, a.key, string(data))
	if err != nil {
		a.logger.ErrorContext(ctx, "save tasks failed", slog.Int("count", len(tasks)), slog.Any("err", err))

		return
	}

	a.logger.DebugContext(ctx, "saved tasks", slog.Int("count", len(tasks)))
}

// Load reads the stored collection. It returns an empty, non-nil slice when
// the key is absent, unreadable, not a JSON array, or malformed.
func (a *Adapter) Load(ctx context.Context) []todo.Task {
	raw, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		a.logger.ErrorContext(ctx, "load tasks failed", slog.Any("err", err))

		return []todo.Task{}
	}

	if !ok {
		return []todo.Task{}
	}

	tasks, err := decode([]byte(raw))
	if err != nil {
		a.logger.ErrorContext(ctx, "decode stored tasks failed", slog.Int("bytes", len(raw)), slog.Any("err", err))

		return []todo.Task{}
	}

	a.logger.DebugContext(ctx, "loaded tasks", slog.Int("count", len(tasks)))

	return tasks
}

// Clear removes the stored collection. Failures are logged, never returned.
func (a *Adapter) Clear(ctx context.Context) {
	err := a.store.Remove(ctx, a.key)
	if err != nil {
		a.logger.ErrorContext(ctx, "clear tasks failed", slog.Any("err", err))

		return
	}

	a.logger.DebugContext(ctx, "cleared tasks")
}

// decode checks the payload is a JSON array and decodes its elements.
// Element fields are not validated beyond their JSON types.
func decode(data []byte) ([]todo.Task, error) {
	var elems []json.RawMessage

	err := json.Unmarshal(data, &elems)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, errNotArray
		}

		return nil, err
	}

	// json.Unmarshal accepts the literal null as an empty slice.
	if elems == nil && bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, errNotArray
	}

	tasks := make([]todo.Task, 0, len(elems))

	for i, elem := range elems {
		var task todo.Task

		err := json.Unmarshal(elem, &task)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}
