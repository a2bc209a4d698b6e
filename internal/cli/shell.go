package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/todo"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	flag "github.com/spf13/pflag"
)

const (
	shellPrompt      = "td> "
	historyFileName  = ".shell_history"
	historyFilePerms = 0o600
)

var shellCommands = []string{"add", "toggle", "done", "rm", "clear", "filter", "ls", "stats", "help", "quit", "exit"}

// ShellCmd returns the shell command.
func ShellCmd(cfg *config.Config, logger *slog.Logger, stdin io.Reader) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive session",
		Long: `Start an interactive session that keeps the task list in memory.
Every change is saved immediately and the list is redrawn.
Type 'help' inside the shell for its commands.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			s, err := openSession(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer s.close()

			lines := newLineReader(stdin, filepath.Join(cfg.DataDirAbs, historyFileName), logger)
			defer lines.Close()

			sh := &shell{io: io, s: s, lines: lines}

			return sh.run(ctx)
		},
	}
}

// lineReader yields one input line per Prompt call.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// newLineReader uses liner when stdin is a terminal and a plain scanner
// otherwise (pipes, tests).
func newLineReader(stdin io.Reader, historyPath string, logger *slog.Logger) lineReader {
	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) && liner.TerminalSupported() {
		return newLinerReader(historyPath, logger)
	}

	if stdin == nil {
		stdin = strings.NewReader("")
	}

	return &scanReader{scanner: bufio.NewScanner(stdin)}
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}

	if err := r.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }

type linerReader struct {
	state       *liner.State
	historyPath string
	logger      *slog.Logger
}

func newLinerReader(historyPath string, logger *slog.Logger) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(func(line string) []string {
		var out []string

		for _, c := range shellCommands {
			if strings.HasPrefix(c, strings.ToLower(line)) {
				out = append(out, c)
			}
		}

		return out
	})

	if f, err := os.Open(historyPath); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}

	return &linerReader{state: state, historyPath: historyPath, logger: logger}
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}

	return line, err
}

func (r *linerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

func (r *linerReader) Close() error {
	f, err := os.OpenFile(r.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, historyFilePerms)
	if err == nil {
		_, _ = r.state.WriteHistory(f)
		_ = f.Close()
	} else {
		r.logger.Debug("write shell history failed", slog.Any("err", err))
	}

	return r.state.Close()
}

type shell struct {
	io    *IO
	s     *session
	lines lineReader
}

func (sh *shell) run(ctx context.Context) error {
	sh.io.Println("td shell - type 'help' for commands")
	renderList(sh.io, sh.s.mgr)

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := sh.lines.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		sh.lines.AppendHistory(line)

		if !sh.exec(ctx, line) {
			return nil
		}
	}
}

// exec runs one shell line. It returns false when the session should end.
func (sh *shell) exec(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return false

	case "help", "?":
		sh.printHelp()

	case "ls", "list":
		renderList(sh.io, sh.s.mgr)

	case "stats":
		sh.io.Println(formatStats(sh.s.mgr.Stats()))

	case "filter":
		// Unknown values leave the current filter in place.
		sh.s.mgr.SetFilter(rest)
		renderList(sh.io, sh.s.mgr)

	case "add":
		if _, ok := sh.s.mgr.AddTask(rest); !ok {
			sh.io.Println("error:", todo.ErrTextRequired)

			return true
		}

		sh.mutated(ctx)

	case "toggle", "done":
		id, err := todo.ParseID(rest)
		if err != nil {
			sh.io.Println("error:", err)

			return true
		}

		if _, ok := sh.s.mgr.ToggleTask(id); !ok {
			sh.io.Println("error:", fmt.Errorf("%w: %d", todo.ErrTaskNotFound, id))

			return true
		}

		sh.mutated(ctx)

	case "rm":
		id, err := todo.ParseID(rest)
		if err != nil {
			sh.io.Println("error:", err)

			return true
		}

		if !sh.s.mgr.RemoveTask(id) {
			sh.io.Println("error:", fmt.Errorf("%w: %d", todo.ErrTaskNotFound, id))

			return true
		}

		sh.mutated(ctx)

	case "clear":
		if sh.s.mgr.ClearCompleted() > 0 {
			sh.mutated(ctx)
		} else {
			renderList(sh.io, sh.s.mgr)
		}

	default:
		sh.io.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return true
}

func (sh *shell) mutated(ctx context.Context) {
	sh.s.save(ctx)
	renderList(sh.io, sh.s.mgr)
}

func (sh *shell) printHelp() {
	sh.io.Println(`Commands:
  add <text>        Add a task
  toggle <id>       Flip a task between active and completed (alias: done)
  rm <id>           Remove a task
  clear             Remove all completed tasks
  filter <value>    Show all, active or completed tasks
  ls                Redraw the list
  stats             Show counts
  help              Show this help
  quit              Leave the shell`)
}
