package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/todo"

	flag "github.com/spf13/pflag"
)

// RmCmd returns the rm command.
func RmCmd(cfg *config.Config, logger *slog.Logger) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <id>",
		Short: "Remove a task",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			id, err := idArg(args)
			if err != nil {
				return err
			}

			s, err := openSession(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer s.close()

			if !s.mgr.RemoveTask(id) {
				return fmt.Errorf("%w: %d", todo.ErrTaskNotFound, id)
			}

			s.save(ctx)

			io.Println("Removed", id)

			return nil
		},
	}
}
