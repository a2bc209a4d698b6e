// Package todo holds the in-memory task collection and its query helpers.
//
// A [Manager] owns one ordered collection of [Task] values plus the active
// [Filter]. It never touches storage; persistence lives in package persist
// and callers move the collection across with [Manager.AllTasks] and
// [Manager.LoadTasks].
package todo

import (
	"slices"
	"time"
)

// Task is a single to-do entry.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"` //nolint:tagliatelle // persisted layout uses camelCase
}

// TimestampLayout is the ISO-8601 layout used for CreatedAt (UTC, milliseconds).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in [TimestampLayout] after converting to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Created parses CreatedAt. Any RFC 3339 timestamp is accepted.
func (t Task) Created() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, t.CreatedAt)
}

// Filter selects a view over the collection.
type Filter string

// Filter values.
const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

var validFilters = []Filter{FilterAll, FilterActive, FilterCompleted}

// Filters returns the valid filter values in display order.
func Filters() []Filter {
	return slices.Clone(validFilters)
}

// ParseFilter converts s to a [Filter]. ok is false for anything outside the enum.
func ParseFilter(s string) (Filter, bool) {
	f := Filter(s)
	if slices.Contains(validFilters, f) {
		return f, true
	}

	return "", false
}

// Match reports whether task belongs to the view selected by f.
// An unknown filter matches everything, same as [FilterAll].
func (f Filter) Match(task Task) bool {
	switch f {
	case FilterActive:
		return !task.Completed
	case FilterCompleted:
		return task.Completed
	default:
		return true
	}
}

// Stats are aggregate counts derived from a collection.
// Active+Completed always equals Total.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// ComputeStats counts tasks by completion state.
func ComputeStats(tasks []Task) Stats {
	stats := Stats{Total: len(tasks)}

	for _, task := range tasks {
		if task.Completed {
			stats.Completed++
		} else {
			stats.Active++
		}
	}

	return stats
}
