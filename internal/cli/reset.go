package cli

import (
	"context"
	"log/slog"

	"github.com/calvinalkan/agent-todo/internal/config"

	flag "github.com/spf13/pflag"
)

// ResetCmd returns the reset command.
func ResetCmd(cfg *config.Config, logger *slog.Logger) *Command {
	return &Command{
		Flags: flag.NewFlagSet("reset", flag.ContinueOnError),
		Usage: "reset",
		Short: "Delete all stored tasks",
		Long:  "Remove the stored task collection. The data directory itself is kept.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			s, err := openSession(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer s.close()

			s.adapter.Clear(ctx)

			io.Println("Storage cleared")

			return nil
		},
	}
}
