package todo

import (
	"slices"
	"strings"
	"time"
)

// Manager owns an ordered task collection and the active filter.
//
// All operations are O(n) scans. A Manager is not safe for concurrent use;
// it assumes one logical caller at a time.
type Manager struct {
	tasks  []Task
	filter Filter
	ids    IDGenerator
	now    func() time.Time
}

// Option configures a [Manager].
type Option func(*Manager)

// WithIDGenerator replaces the default clock-derived ID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		if gen != nil {
			m.ids = gen
		}
	}
}

// WithClock sets the time source for CreatedAt. When no ID generator is
// given, IDs are derived from the same clock.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager returns an empty manager with the filter set to [FilterAll].
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		tasks:  []Task{},
		filter: FilterAll,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.ids == nil {
		m.ids = NewClockIDs(m.now)
	}

	return m
}

// AddTask appends a new active task with the trimmed text.
// Returns false without mutating anything if text is empty after trimming.
func (m *Manager) AddTask(text string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}

	task := Task{
		ID:        m.nextID(),
		Text:      text,
		Completed: false,
		CreatedAt: FormatTimestamp(m.now()),
	}

	m.tasks = append(m.tasks, task)

	return task, true
}

// RemoveTask deletes the task with id. Reports whether anything was removed.
func (m *Manager) RemoveTask(id int64) bool {
	idx := m.indexOf(id)
	if idx < 0 {
		return false
	}

	m.tasks = slices.Delete(m.tasks, idx, idx+1)

	return true
}

// ToggleTask flips Completed on the task with id and returns the updated task.
func (m *Manager) ToggleTask(id int64) (Task, bool) {
	idx := m.indexOf(id)
	if idx < 0 {
		return Task{}, false
	}

	m.tasks[idx].Completed = !m.tasks[idx].Completed

	return m.tasks[idx], true
}

// ClearCompleted removes every completed task and returns how many went.
func (m *Manager) ClearCompleted() int {
	before := len(m.tasks)
	m.tasks = slices.DeleteFunc(m.tasks, func(t Task) bool { return t.Completed })

	return before - len(m.tasks)
}

// FilteredTasks returns the tasks matching the current filter, in insertion order.
// The returned slice is a copy.
func (m *Manager) FilteredTasks() []Task {
	out := make([]Task, 0, len(m.tasks))

	for _, task := range m.tasks {
		if m.filter.Match(task) {
			out = append(out, task)
		}
	}

	return out
}

// SetFilter changes the active filter. Values outside the enum are ignored.
func (m *Manager) SetFilter(value string) {
	if f, ok := ParseFilter(value); ok {
		m.filter = f
	}
}

// Filter returns the active filter.
func (m *Manager) Filter() Filter {
	return m.filter
}

// Stats counts the whole collection, ignoring the filter.
func (m *Manager) Stats() Stats {
	return ComputeStats(m.tasks)
}

// LoadTasks replaces the collection with candidate. A nil candidate yields
// an empty collection. Individual tasks are taken as-is; see [Validate].
func (m *Manager) LoadTasks(candidate []Task) {
	if candidate == nil {
		m.tasks = []Task{}

		return
	}

	m.tasks = slices.Clone(candidate)
}

// AllTasks returns a copy of the full collection, ignoring the filter.
func (m *Manager) AllTasks() []Task {
	return slices.Clone(m.tasks)
}

// Len returns the collection size.
func (m *Manager) Len() int {
	return len(m.tasks)
}

func (m *Manager) indexOf(id int64) int {
	return slices.IndexFunc(m.tasks, func(t Task) bool { return t.ID == id })
}

// nextID asks the generator for an ID and falls back to max+1 if the
// generator collides with a loaded task.
func (m *Manager) nextID() int64 {
	id := m.ids.NextID()
	if m.indexOf(id) < 0 {
		return id
	}

	maxID := id
	for _, task := range m.tasks {
		maxID = max(maxID, task.ID)
	}

	return maxID + 1
}
