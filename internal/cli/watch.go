package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/kv"
	"github.com/calvinalkan/agent-todo/internal/todo"
	"github.com/fsnotify/fsnotify"

	flag "github.com/spf13/pflag"
)

var errWatchMemory = errors.New("watch needs a persistent backend (file or sqlite)")

// WatchCmd returns the watch command.
func WatchCmd(cfg *config.Config, logger *slog.Logger) *Command {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.StringP("filter", "f", string(todo.FilterAll), "Show only tasks matching filter ("+filterList()+")")

	return &Command{
		Flags: fs,
		Usage: "watch [flags]",
		Short: "Redraw the list whenever stored tasks change",
		Long:  "Print the list, then print it again each time the data directory changes. Stops on interrupt.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execWatch(ctx, io, cfg, logger, fs)
		},
	}
}

func execWatch(ctx context.Context, io *IO, cfg *config.Config, logger *slog.Logger, fs *flag.FlagSet) error {
	value, _ := fs.GetString("filter")

	filter, ok := todo.ParseFilter(value)
	if !ok {
		return fmt.Errorf("%w: %q (want %s)", todo.ErrInvalidFilter, value, filterList())
	}

	if cfg.Backend == string(kv.BackendMemory) {
		return errWatchMemory
	}

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.close()

	s.mgr.SetFilter(string(filter))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	err = watcher.Add(cfg.DataDirAbs)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.DataDirAbs, err)
	}

	logger = logger.With(slog.String("component", "watch"))
	logger.DebugContext(ctx, "watching", slog.String("dir", cfg.DataDirAbs))

	var last []byte

	redraw := func() {
		s.reload(ctx)

		var buf bytes.Buffer

		frame := NewIO(&buf, &buf)
		frame.width = io.width
		renderList(frame, s.mgr)

		if bytes.Equal(buf.Bytes(), last) {
			return
		}

		last = buf.Bytes()
		io.Printf("%s", last)
	}

	redraw()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !relevantEvent(ev) {
				continue
			}

			logger.DebugContext(ctx, "change", slog.String("op", ev.Op.String()), slog.String("path", ev.Name))
			redraw()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnContext(ctx, "watcher error", slog.Any("err", err))
		}
	}
}

// relevantEvent filters out noise that cannot change the stored tasks.
func relevantEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(ev.Name)

	return base != historyFileName && !strings.HasSuffix(base, "-shm")
}
