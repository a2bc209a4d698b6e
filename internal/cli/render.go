package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/calvinalkan/agent-todo/internal/todo"
	"github.com/mattn/go-runewidth"
)

const (
	markOpen  = "[ ]"
	markDone  = "[x]"
	ellipsis  = "..."
	minTextW  = 8
	idTextGap = "  "
)

// formatTask renders one task as "[ ] <id>  <text>", truncating text so
// the line fits in width columns.
func formatTask(task todo.Task, width int) string {
	mark := markOpen
	if task.Completed {
		mark = markDone
	}

	prefix := mark + " " + strconv.FormatInt(task.ID, 10) + idTextGap
	text := displayText(task.Text)

	avail := max(width-runewidth.StringWidth(prefix), minTextW)
	if runewidth.StringWidth(text) > avail {
		text = runewidth.Truncate(text, avail, ellipsis)
	}

	return prefix + text
}

// displayText folds line breaks and tabs so a task stays on one line.
func displayText(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		default:
			return r
		}
	}, text)
}

func formatStats(stats todo.Stats) string {
	return fmt.Sprintf("%d total, %d active, %d completed", stats.Total, stats.Active, stats.Completed)
}

// renderList prints the filtered view followed by the stats footer.
func renderList(o *IO, mgr *todo.Manager) {
	tasks := mgr.FilteredTasks()

	if len(tasks) == 0 {
		o.Println(emptyMessage(mgr.Filter()))
	}

	for _, task := range tasks {
		o.Println(formatTask(task, o.Width()))
	}

	o.Println()
	o.Println(formatStats(mgr.Stats()))
}

func emptyMessage(filter todo.Filter) string {
	switch filter {
	case todo.FilterActive:
		return "No active tasks"
	case todo.FilterCompleted:
		return "No completed tasks"
	default:
		return "No tasks"
	}
}
