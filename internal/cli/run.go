package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/logging"

	flag "github.com/spf13/pflag"
)

var errNoCommand = errors.New("no command provided")

// Run is the main entry point. Returns exit code.
//
// sigCh cancels the context handed to commands; long-running commands
// (watch, shell) return when it fires. A nil sigCh never fires.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := newGlobalFlags()

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	err := globals.set.Parse(rest)
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, nil)

		return 1
	}

	if globals.help {
		printUsage(out, nil)

		return 0
	}

	remaining := globals.set.Args()
	if len(remaining) == 0 {
		if len(rest) == 0 {
			printUsage(out, nil)

			return 0
		}

		fprintln(errOut, "error:", errNoCommand)
		fprintln(errOut)
		printUsage(errOut, nil)

		return 1
	}

	cfg, err := config.Load(globals.loadInput(env))
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, nil)

		return 1
	}

	logger := logging.WithRun(logging.New(cfg.Logging(env), errOut))
	commands := allCommands(&cfg, logger, stdin)

	name := remaining[0]
	if name == "help" {
		return runHelp(out, errOut, commands, remaining[1:])
	}

	cmd := findCommand(commands, name)
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		fprintln(errOut)
		printUsage(errOut, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case sig := <-sigCh:
			logger.Debug("signal received", slog.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	o := NewIO(out, errOut)
	o.width = terminalWidth(out, env)

	return cmd.Run(ctx, o, remaining[1:])
}

func allCommands(cfg *config.Config, logger *slog.Logger, stdin io.Reader) []*Command {
	return []*Command{
		AddCmd(cfg, logger),
		LsCmd(cfg, logger),
		ToggleCmd(cfg, logger),
		RmCmd(cfg, logger),
		ClearCompletedCmd(cfg, logger),
		StatsCmd(cfg, logger),
		ResetCmd(cfg, logger),
		CheckCmd(cfg, logger),
		ShellCmd(cfg, logger, stdin),
		WatchCmd(cfg, logger),
		PrintConfigCmd(cfg),
	}
}

func findCommand(commands []*Command, name string) *Command {
	for _, cmd := range commands {
		if cmd.Matches(name) {
			return cmd
		}
	}

	return nil
}

// runHelp handles "td help [command]".
func runHelp(out, errOut io.Writer, commands []*Command, args []string) int {
	if len(args) == 0 {
		printUsage(out, commands)

		return 0
	}

	cmd := findCommand(commands, args[0])
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", args[0])

		return 1
	}

	cmd.PrintHelp(NewIO(out, errOut))

	return 0
}

type globalFlags struct {
	set        *flag.FlagSet
	workDir    string
	configPath string
	dataDir    string
	backend    string
	help       bool
}

func newGlobalFlags() *globalFlags {
	g := &globalFlags{set: flag.NewFlagSet("td", flag.ContinueOnError)}

	g.set.SetInterspersed(false)
	g.set.SetOutput(&strings.Builder{}) // errors are printed by Run
	g.set.BoolVarP(&g.help, "help", "h", false, "Show help")
	g.set.StringVarP(&g.workDir, "cwd", "C", "", "Run as if started in `dir`")
	g.set.StringVarP(&g.configPath, "config", "c", "", "Use specified config `file`")
	g.set.StringVar(&g.dataDir, "data-dir", "", "Override data directory")
	g.set.StringVar(&g.backend, "backend", "", "Override storage backend (file|sqlite|memory)")

	return g
}

func (g *globalFlags) loadInput(env map[string]string) config.LoadInput {
	input := config.LoadInput{
		WorkDirOverride: g.workDir,
		ConfigPath:      g.configPath,
		Env:             env,
	}

	if g.set.Changed("data-dir") {
		input.DataDir = &g.dataDir
	}

	if g.set.Changed("backend") {
		input.Backend = &g.backend
	}

	return input
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

// printUsage prints global help. commands may be nil before config is
// loaded; the listing only needs names and descriptions.
func printUsage(w io.Writer, commands []*Command) {
	if commands == nil {
		cfg := config.Default()
		commands = allCommands(&cfg, logging.Discard(), nil)
	}

	fprintln(w, `td - local to-do list

Usage: td [flags] <command> [args]

Global flags:`)
	fprintln(w, strings.TrimRight(newGlobalFlags().set.FlagUsages(), "\n"))
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w)
	fprintln(w, `Run "td <command> --help" for command flags.`)
}
