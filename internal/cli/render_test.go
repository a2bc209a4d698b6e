package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/calvinalkan/agent-todo/internal/todo"
	"github.com/mattn/go-runewidth"
)

func TestFormatTask(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name  string
		task  todo.Task
		width int
		want  string
	}{
		{name: "active", task: todo.Task{ID: 7, Text: "Buy milk"}, width: 80, want: "[ ] 7  Buy milk"},
		{name: "completed", task: todo.Task{ID: 7, Text: "Buy milk", Completed: true}, width: 80, want: "[x] 7  Buy milk"},
		{name: "newlines folded", task: todo.Task{ID: 1, Text: "a\nb\tc"}, width: 80, want: "[ ] 1  a b c"},
		{name: "truncated", task: todo.Task{ID: 1, Text: "abcdefghijklmnopqrstuvwxyz"}, width: 20, want: "[ ] 1  abcdefghij..."},
		{name: "narrow keeps minimum", task: todo.Task{ID: 1, Text: "abcdefghijklmnop"}, width: 4, want: "[ ] 1  abcde..."},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatTask(tt.task, tt.width); got != tt.want {
				t.Errorf("formatTask()=%q, want=%q", got, tt.want)
			}
		})
	}
}

func TestFormatTaskWideRunes(t *testing.T) {
	t.Parallel()

	line := formatTask(todo.Task{ID: 1, Text: strings.Repeat("日本語", 20)}, 30)

	if got := runewidth.StringWidth(line); got > 30 {
		t.Errorf("width=%d, want <= 30: %q", got, line)
	}
}

func TestRenderList(t *testing.T) {
	t.Parallel()

	mgr := todo.NewManager(todo.WithIDGenerator(todo.NewSequenceIDs(1)))
	mgr.AddTask("one")
	two, _ := mgr.AddTask("two")
	mgr.ToggleTask(two.ID)

	var out bytes.Buffer

	renderList(NewIO(&out, &out), mgr)

	want := "[ ] 1  one\n[x] 2  two\n\n2 total, 1 active, 1 completed\n"
	if got := out.String(); got != want {
		t.Errorf("renderList()=%q, want=%q", got, want)
	}

	out.Reset()
	mgr.SetFilter("active")
	mgr.ToggleTask(1)
	renderList(NewIO(&out, &out), mgr)

	want = "No active tasks\n\n2 total, 0 active, 2 completed\n"
	if got := out.String(); got != want {
		t.Errorf("renderList()=%q, want=%q", got, want)
	}
}

func TestTerminalWidth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	for _, tt := range []struct {
		env  map[string]string
		want int
	}{
		{env: map[string]string{"COLUMNS": "120"}, want: 120},
		{env: map[string]string{"COLUMNS": "junk"}, want: defaultWidth},
		{env: map[string]string{"COLUMNS": "-3"}, want: defaultWidth},
		{env: nil, want: defaultWidth},
	} {
		if got := terminalWidth(&buf, tt.env); got != tt.want {
			t.Errorf("terminalWidth(%v)=%d, want=%d", tt.env, got, tt.want)
		}
	}
}
