package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/kv"
	"github.com/calvinalkan/agent-todo/internal/persist"
	"github.com/calvinalkan/agent-todo/internal/todo"
)

// session is one load → mutate → save cycle against the configured store.
type session struct {
	store   kv.Store
	adapter *persist.Adapter
	mgr     *todo.Manager
	logger  *slog.Logger
}

// openSession opens the store from cfg and loads the stored collection
// into a fresh manager.
func openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session, error) {
	backend, err := kv.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(ctx, backend, cfg.DataDirAbs)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}

	logger.DebugContext(ctx, "store opened", slog.String("backend", string(backend)), slog.String("dir", cfg.DataDirAbs))

	s := &session{
		store:   store,
		adapter: persist.New(store, logger, persist.WithKey(cfg.Key)),
		mgr:     todo.NewManager(),
		logger:  logger,
	}

	s.reload(ctx)

	return s, nil
}

// reload replaces the in-memory collection with the stored one.
func (s *session) reload(ctx context.Context) {
	s.mgr.LoadTasks(s.adapter.Load(ctx))
}

func (s *session) save(ctx context.Context) {
	s.adapter.Save(ctx, s.mgr.AllTasks())
}

func (s *session) close() {
	err := s.store.Close()
	if err != nil {
		s.logger.Warn("close store failed", slog.Any("err", err))

		return
	}

	s.logger.Debug("store closed")
}
