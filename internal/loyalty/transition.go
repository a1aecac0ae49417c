package loyalty

import (
	"errors"

	"github.com/eclatbeaute/eclat/internal/model"
)

var (
	// ErrAlreadyCompleted rejects a second completion of the same task.
	ErrAlreadyCompleted = errors.New("task already completed")
	// ErrTaskExpired rejects progress or completion on an expired task.
	ErrTaskExpired = errors.New("task expired")
)

// ClampProgress confines a raw progress value to [0, target].
func ClampProgress(current, target int) int {
	if current < 0 {
		return 0
	}
	if current > target {
		return target
	}
	return current
}

// NextStatus maps a clamped progress value onto the lifecycle: zero progress
// keeps the task pending, partial progress moves it to in-progress, reaching
// the target completes it.
func NextStatus(current, target int) model.TaskStatus {
	switch {
	case current >= target:
		return model.TaskCompleted
	case current > 0:
		return model.TaskInProgress
	default:
		return model.TaskPending
	}
}

// Terminal reports whether a status admits no further transitions.
func Terminal(s model.TaskStatus) bool {
	return s == model.TaskCompleted || s == model.TaskExpired
}

// CheckActive validates that a task may still move. A past deadline alone
// does not block it: expiry only takes effect once the cleanup sweep has
// marked or removed the task, so a mission finished just before the sweep
// still pays out.
func CheckActive(status model.TaskStatus) error {
	switch status {
	case model.TaskCompleted:
		return ErrAlreadyCompleted
	case model.TaskExpired:
		return ErrTaskExpired
	}
	return nil
}
