package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/todo"

	flag "github.com/spf13/pflag"
)

// ToggleCmd returns the toggle command.
func ToggleCmd(cfg *config.Config, logger *slog.Logger) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("toggle", flag.ContinueOnError),
		Usage:   "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Flip a task between active and completed",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execToggle(ctx, io, cfg, logger, args)
		},
	}
}

func execToggle(ctx context.Context, io *IO, cfg *config.Config, logger *slog.Logger, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.close()

	task, ok := s.mgr.ToggleTask(id)
	if !ok {
		return fmt.Errorf("%w: %d", todo.ErrTaskNotFound, id)
	}

	s.save(ctx)

	io.Println(formatTask(task, io.Width()))

	return nil
}

// idArg extracts the single task ID argument.
func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, todo.ErrIDRequired
	}

	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected arguments: %v", args[1:])
	}

	return todo.ParseID(args[0])
}
