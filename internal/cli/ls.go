package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/todo"

	flag "github.com/spf13/pflag"
)

// LsCmd returns the ls command.
func LsCmd(cfg *config.Config, logger *slog.Logger) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.StringP("filter", "f", string(todo.FilterAll), "Show only tasks matching filter ("+filterList()+")")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List tasks",
		Long:  "List tasks in the order they were added, followed by a summary line.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execLs(ctx, io, cfg, logger, fs)
		},
	}
}

func execLs(ctx context.Context, io *IO, cfg *config.Config, logger *slog.Logger, fs *flag.FlagSet) error {
	value, _ := fs.GetString("filter")

	filter, ok := todo.ParseFilter(value)
	if !ok {
		return fmt.Errorf("%w: %q (want %s)", todo.ErrInvalidFilter, value, filterList())
	}

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.close()

	s.mgr.SetFilter(string(filter))
	renderList(io, s.mgr)

	return nil
}

func filterList() string {
	names := make([]string, 0, len(todo.Filters()))
	for _, f := range todo.Filters() {
		names = append(names, string(f))
	}

	return strings.Join(names, "|")
}
