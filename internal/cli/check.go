package cli

import (
	"context"
	"log/slog"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/todo"

	flag "github.com/spf13/pflag"
)

// CheckCmd returns the check command.
func CheckCmd(cfg *config.Config, logger *slog.Logger) *Command {
	return &Command{
		Flags: flag.NewFlagSet("check", flag.ContinueOnError),
		Usage: "check",
		Short: "Report inconsistencies in stored tasks",
		Long: `Check the stored collection for duplicate IDs, blank or untrimmed text
and unreadable timestamps. Each problem is printed as a warning and the
command exits 1 if any are found. Nothing is modified.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			s, err := openSession(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer s.close()

			problems := todo.Validate(s.mgr.AllTasks())
			for _, p := range problems {
				io.Warn(p.String(), "edit or remove the task")
			}

			if len(problems) == 0 {
				io.Printf("%d task(s) ok\n", s.mgr.Len())
			}

			return nil
		},
	}
}
