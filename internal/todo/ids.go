package todo

import (
	"fmt"
	"strconv"
	"time"
)

// IDGenerator hands out task IDs. Implementations must return strictly
// increasing values within one generator.
type IDGenerator interface {
	NextID() int64
}

// ClockIDs derives IDs from wall-clock milliseconds. Two calls within the
// same millisecond still get distinct IDs: the second one is bumped past
// the previous value.
type ClockIDs struct {
	now  func() time.Time
	last int64
}

// NewClockIDs returns a generator reading time from now. A nil now uses [time.Now].
func NewClockIDs(now func() time.Time) *ClockIDs {
	if now == nil {
		now = time.Now
	}

	return &ClockIDs{now: now}
}

// NextID returns max(now in ms, previous+1).
func (c *ClockIDs) NextID() int64 {
	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}

	c.last = id

	return id
}

// SequenceIDs is a plain counter, for deterministic output in tests and demos.
type SequenceIDs struct {
	next int64
}

// NewSequenceIDs returns a counter whose first ID is start.
func NewSequenceIDs(start int64) *SequenceIDs {
	return &SequenceIDs{next: start}
}

// NextID returns the current counter value and advances it.
func (s *SequenceIDs) NextID() int64 {
	id := s.next
	s.next++

	return id
}

// ParseID parses a decimal task ID as typed on the command line.
func ParseID(s string) (int64, error) {
	if s == "" {
		return 0, ErrIDRequired
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidID, s)
	}

	return id, nil
}
