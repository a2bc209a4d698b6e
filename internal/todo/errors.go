package todo

import "errors"

// Errors reported by callers of the manager. The manager itself signals
// validation no-ops through its boolean results.
var (
	ErrTextRequired  = errors.New("text is required")
	ErrIDRequired    = errors.New("task ID is required")
	ErrInvalidID     = errors.New("invalid task ID")
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidFilter = errors.New("invalid filter")
)
