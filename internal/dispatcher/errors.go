package dispatcher

import (
	"errors"
	"fmt"
)

// Validation sentinels, matched with errors.Is.
var (
	ErrUnknownColor    = errors.New("unknown color")
	ErrPinOutOfRange   = errors.New("pin out of range")
	ErrValueOutOfRange = errors.New("value out of range")
)

// ValidationError reports a request parameter outside the board's domain.
// The client is never called when one is produced.
type ValidationError struct {
	Operation string
	Field     string
	Value     any
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %v", e.Operation, e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DelegateError wraps a failure reported by the device client.
type DelegateError struct {
	Operation string
	Err       error
}

func (e *DelegateError) Error() string {
	return fmt.Sprintf("%s: device: %v", e.Operation, e.Err)
}

func (e *DelegateError) Unwrap() error {
	return e.Err
}

// outcomeOf classifies a dispatch error for logs, metrics and events.
func outcomeOf(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &verr):
		return OutcomeInvalid
	default:
		return OutcomeDeviceError
	}
}
