package browser

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedTarget = errors.New("unsupported browser target")
	ErrTimeout           = errors.New("browser wait timed out")
	ErrSessionClosed     = errors.New("browser session closed")
)

// IsTimeout reports whether err came from a bounded wait expiring.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
