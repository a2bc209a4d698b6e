package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/todo"

	flag "github.com/spf13/pflag"
)

// AddCmd returns the add command.
func AddCmd(cfg *config.Config, logger *slog.Logger) *Command {
	return &Command{
		Flags: flag.NewFlagSet("add", flag.ContinueOnError),
		Usage: "add <text...>",
		Short: "Add a task",
		Long: `Add a task. All arguments are joined with spaces to form the text.
Surrounding whitespace is trimmed; blank text is rejected.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execAdd(ctx, io, cfg, logger, args)
		},
	}
}

func execAdd(ctx context.Context, io *IO, cfg *config.Config, logger *slog.Logger, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return todo.ErrTextRequired
	}

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.close()

	task, ok := s.mgr.AddTask(text)
	if !ok {
		return todo.ErrTextRequired
	}

	s.save(ctx)

	io.Println(formatTask(task, io.Width()))

	return nil
}
