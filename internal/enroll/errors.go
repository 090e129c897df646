package enroll

import (
	"errors"
	"fmt"
)

var (
	// ErrSequenceRunning rejects actions that need the capture source while
	// an automatic sequence is running.
	ErrSequenceRunning = errors.New("capture sequence is running")
	// ErrManualInFlight rejects actions while a manual capture is submitting.
	ErrManualInFlight = errors.New("manual capture is in flight")
	// ErrClosed is returned once the orchestrator has shut down.
	ErrClosed = errors.New("orchestrator is closed")
)

// ValidationError rejects a request before any step begins.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
