package cli

import (
	"context"
	"log/slog"

	"github.com/calvinalkan/agent-todo/internal/config"

	flag "github.com/spf13/pflag"
)

// ClearCompletedCmd returns the clear-completed command.
func ClearCompletedCmd(cfg *config.Config, logger *slog.Logger) *Command {
	return &Command{
		Flags: flag.NewFlagSet("clear-completed", flag.ContinueOnError),
		Usage: "clear-completed",
		Short: "Remove all completed tasks",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			s, err := openSession(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer s.close()

			n := s.mgr.ClearCompleted()
			if n > 0 {
				s.save(ctx)
			}

			io.Printf("Cleared %d completed task(s)\n", n)

			return nil
		},
	}
}
