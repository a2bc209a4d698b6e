package todo

import (
	"fmt"
	"strings"
)

// Problem describes one inconsistency found by [Validate].
type Problem struct {
	Index int   // position in the collection
	ID    int64 // task ID at that position
	Issue string
}

func (p Problem) String() string {
	return fmt.Sprintf("task #%d (id %d): %s", p.Index+1, p.ID, p.Issue)
}

// Validate checks tasks for shape problems that [Manager.LoadTasks]
// deliberately lets through: duplicate IDs, empty or untrimmed text and
// unparseable timestamps. It is a diagnostic only and never modifies tasks.
func Validate(tasks []Task) []Problem {
	var problems []Problem

	seen := make(map[int64]int, len(tasks))

	for idx, task := range tasks {
		if first, dup := seen[task.ID]; dup {
			problems = append(problems, Problem{
				Index: idx,
				ID:    task.ID,
				Issue: fmt.Sprintf("duplicate id (first seen at #%d)", first+1),
			})
		} else {
			seen[task.ID] = idx
		}

		trimmed := strings.TrimSpace(task.Text)

		switch {
		case trimmed == "":
			problems = append(problems, Problem{Index: idx, ID: task.ID, Issue: "empty text"})
		case trimmed != task.Text:
			problems = append(problems, Problem{Index: idx, ID: task.ID, Issue: "text has surrounding whitespace"})
		}

		if _, err := task.Created(); err != nil {
			problems = append(problems, Problem{
				Index: idx,
				ID:    task.ID,
				Issue: fmt.Sprintf("invalid createdAt %q", task.CreatedAt),
			})
		}
	}

	return problems
}
