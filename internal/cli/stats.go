package cli

import (
	"context"
	"log/slog"

	"github.com/calvinalkan/agent-todo/internal/config"

	flag "github.com/spf13/pflag"
)

// StatsCmd returns the stats command.
func StatsCmd(cfg *config.Config, logger *slog.Logger) *Command {
	return &Command{
		Flags: flag.NewFlagSet("stats", flag.ContinueOnError),
		Usage: "stats",
		Short: "Show task counts",
		Long:  "Print total, active and completed counts as key=value pairs.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			s, err := openSession(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer s.close()

			st := s.mgr.Stats()
			io.Printf("total=%d active=%d completed=%d\n", st.Total, st.Active, st.Completed)

			return nil
		},
	}
}
