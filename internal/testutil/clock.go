// Package testutil holds helpers shared by tests across packages.
package testutil

import "time"

// Clock provides deterministic, monotonically increasing timestamps.
// Each call to [Clock.Now] advances the clock by one step.
type Clock struct {
	current time.Time
	step    time.Duration
}

// NewClock returns a clock initialized to a fixed UTC start time,
// stepping one second per reading.
func NewClock() *Clock {
	return &Clock{
		current: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		step:    time.Second,
	}
}

// Now advances the clock and returns the new time.
func (c *Clock) Now() time.Time {
	c.current = c.current.Add(c.step)

	return c.current
}

// NextTimestamp advances the clock and returns it in the persisted
// createdAt layout.
func (c *Clock) NextTimestamp() string {
	return c.Now().Format("2006-01-02T15:04:05.000Z07:00")
}
