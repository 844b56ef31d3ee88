package models

import (
	"errors"
	"fmt"
)

// ErrMutationInFlight is returned when a mutation is attempted while another
// one has not finished its remote round trip yet. At most one mutation may be
// in flight: interleaved snapshots would let one mutation's rollback discard
// another's committed change.
var ErrMutationInFlight = errors.New("another mutation is still in flight")

// ValidationError reports user input rejected before any network attempt.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// RemoteError reports a failed call against the remote collection backend:
// either it answered with a non-success status or the request itself failed.
// Message is the server-supplied text when there is one.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// NewRemoteError creates a RemoteError, falling back to a generic message when
// the server supplied none.
func NewRemoteError(message string) *RemoteError {
	if message == "" {
		message = "remote request failed"
	}
	return &RemoteError{Message: message}
}

// NotFoundError reports an operation targeting an id that is not in the store.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %d not found", e.ID)
}
