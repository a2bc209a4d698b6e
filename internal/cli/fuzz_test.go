package cli_test

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/calvinalkan/agent-todo/internal/cli"
	"github.com/calvinalkan/agent-todo/internal/testutil"
	"github.com/calvinalkan/agent-todo/internal/todo"
	"github.com/google/go-cmp/cmp"
)

// missingID never matches a task: CLI ids are millisecond timestamps and
// model ids stay far below it for the op counts used here.
const missingID = "999"

type storedTask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// FuzzCLI_Matches_Model_When_Random_Ops_Applied drives the CLI and an
// in-process manager with the same ops and compares outcomes.
func FuzzCLI_Matches_Model_When_Random_Ops_Applied(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00, 0x05, 'a', 'b', 'c', 'd', 'e', 0x01, 0x00})
	f.Add([]byte("td-ops"))
	f.Add([]byte{0, 3, 1, 2, 3, 0, 4, 4, 5, 6, 1, 0, 3, 4, 2, 1, 4, 2, 5})

	f.Fuzz(func(t *testing.T, seed []byte) {
		maxOps := 40
		if testing.Short() {
			maxOps = 15
		}

		c := cli.NewCLI(t)
		model := todo.NewManager(todo.WithIDGenerator(todo.NewSequenceIDs(1)))
		gen := testutil.NewOpGenerator(seed)

		var cliIDs []string

		var history []string

		for i := 0; i < maxOps && gen.HasMore(); i++ {
			op := gen.NextOp(len(cliIDs))
			history = append(history, op.String())

			cliOK, modelOK := applyOp(t, c, model, &cliIDs, op)
			if cliOK != modelOK {
				t.Fatalf("%s: cli ok=%v, model ok=%v\n%s", op, cliOK, modelOK, testutil.FormatOps(history))
			}
		}

		st := model.Stats()
		want := fmt.Sprintf("total=%d active=%d completed=%d", st.Total, st.Active, st.Completed)

		if got := c.MustRun("stats"); got != want {
			t.Fatalf("stats=%q, want=%q\n%s", got, want, testutil.FormatOps(history))
		}

		if model.Len() == 0 {
			return
		}

		var stored []storedTask

		err := json.Unmarshal([]byte(c.ReadStored()), &stored)
		if err != nil {
			t.Fatalf("stored JSON: %v", err)
		}

		var wantTasks []storedTask
		for _, task := range model.AllTasks() {
			wantTasks = append(wantTasks, storedTask{Text: task.Text, Completed: task.Completed})
		}

		if diff := cmp.Diff(wantTasks, stored); diff != "" {
			t.Fatalf("stored tasks mismatch (-model +cli):\n%s\n%s", diff, testutil.FormatOps(history))
		}
	})
}

func applyOp(t *testing.T, c *cli.CLI, model *todo.Manager, cliIDs *[]string, op testutil.Op) (bool, bool) {
	t.Helper()

	target := func() (string, int64) {
		if op.Target < len(*cliIDs) {
			return (*cliIDs)[op.Target], model.AllTasks()[op.Target].ID
		}

		id, _ := strconv.ParseInt(missingID, 10, 64)

		return missingID, id
	}

	switch op.Kind {
	case testutil.OpAdd:
		stdout, _, code := c.Run("add", op.Text)
		_, modelOK := model.AddTask(op.Text)

		if code == 0 {
			fields := strings.Fields(stdout)
			*cliIDs = append(*cliIDs, fields[2])
		}

		return code == 0, modelOK

	case testutil.OpToggle:
		cliID, modelID := target()
		_, _, code := c.Run("toggle", cliID)
		_, modelOK := model.ToggleTask(modelID)

		return code == 0, modelOK

	case testutil.OpRemove:
		cliID, modelID := target()
		_, _, code := c.Run("rm", cliID)
		modelOK := model.RemoveTask(modelID)

		if code == 0 {
			*cliIDs = append((*cliIDs)[:op.Target], (*cliIDs)[op.Target+1:]...)
		}

		return code == 0, modelOK

	case testutil.OpClearCompleted:
		all := model.AllTasks()
		stdout, _, code := c.Run("clear-completed")
		n := model.ClearCompleted()

		kept := (*cliIDs)[:0]
		for i, task := range all {
			if !task.Completed {
				kept = append(kept, (*cliIDs)[i])
			}
		}

		*cliIDs = kept

		return code == 0 && strings.Contains(stdout, "Cleared "+strconv.Itoa(n)+" "), true

	case testutil.OpSetFilter:
		model.SetFilter(op.Filter)

		stdout, _, code := c.Run("ls", "--filter="+string(model.Filter()))
		lines := 0

		for _, line := range strings.Split(stdout, "\n") {
			if strings.HasPrefix(line, "[") {
				lines++
			}
		}

		return code == 0 && lines == len(model.FilteredTasks()), true

	default:
		_, _, code := c.Run("stats")

		return code == 0, true
	}
}

// FuzzCLI_DoesNotCrash_When_Invoked_With_Arbitrary_Input checks that any
// command line leaves storage readable and consistent.
func FuzzCLI_DoesNotCrash_When_Invoked_With_Arbitrary_Input(f *testing.F) {
	for _, seed := range []string{
		"", " ", "--help", "-h", "help",
		"add test", "add", "add 日本語", "add   padded   ",
		"ls", "ls --filter active", "ls --filter=bogus", "ls -f",
		"toggle", "toggle 1", "toggle abc", "done 999999999999999999999",
		"rm", "rm 1 2", "clear-completed", "stats", "reset", "check",
		"print-config", "shell", "unknown", "ls --help",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		args := strings.Fields(input)

		// Global flags can point td outside the temp dir and watch blocks
		// until a signal.
		if len(args) > 0 && (strings.HasPrefix(args[0], "-") || args[0] == "watch") {
			return
		}

		c := cli.NewCLI(t)
		c.AddTask("seed task")

		_, _, _ = c.Run(args...)

		c.MustRun("ls")
		c.MustRun("check")
	})
}
