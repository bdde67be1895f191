package runner

import (
	"errors"
	"fmt"

	"github.com/sznuper/keeper/internal/result"
)

// Result captures the outcome of processing one account. Errors are stored in
// Err/ErrStage rather than returned, so the caller always has something to
// display and the batch always continues.
type Result struct {
	RunID     string
	Run       *result.RunResult
	Rendered  map[string]string // service name → rendered message
	Notified  []string          // services notified (or would-notify)
	DryRun    bool
	Err       error
	ErrStage  string // "launch", "login", "navigate", "inspect"
	NotifyErr error  // first delivery failure; never fatal
}

// StageError records which pipeline stage an account failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err, or "" when err carries none.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
