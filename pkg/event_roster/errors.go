package event_roster

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveForm      = errors.New("no event form is open")
	ErrFormOpen          = errors.New("close the event form first")
	ErrIndexOutOfRange   = errors.New("event index out of range")
	ErrEventNotPersisted = errors.New("event has no id")
	ErrUnknownUser       = errors.New("unknown user")
	ErrRequestInFlight   = errors.New("another request is still in flight")
)

type Field string

const (
	FieldName     Field = "name"
	FieldSchedule Field = "schedule"
	FieldAddress  Field = "address"
	FieldDate     Field = "date"
	FieldTime     Field = "time"
)

// ValidationError rejects a form before any request is made.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RemoteError wraps a failed store call.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
