package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the typed errors the core produces. Every error keeps
// its kind through the API boundary so clients can render it appropriately
// instead of showing a generic alert.
type ErrorKind string

const (
	// ErrNotFound means the task, chat or report target does not exist
	ErrNotFound ErrorKind = "NOT_FOUND"
	// ErrAlreadyTaken means another runner won the acceptance race
	ErrAlreadyTaken ErrorKind = "ALREADY_TAKEN"
	// ErrConflict means a compare-and-swap lost against a concurrent write
	ErrConflict ErrorKind = "CONFLICT"
	// ErrInvalidTransition means the requested transition is not valid from
	// the current state; CurrentState lets the caller resynchronize
	ErrInvalidTransition ErrorKind = "INVALID_TRANSITION"
	// ErrForbidden means the actor does not hold the role the transition requires
	ErrForbidden ErrorKind = "FORBIDDEN"
	// ErrUnderReview means the task is frozen pending manual review
	ErrUnderReview ErrorKind = "UNDER_REVIEW"
	// ErrTaskClosed means the task is done and its chat no longer accepts writes
	ErrTaskClosed ErrorKind = "TASK_CLOSED"
	// ErrBusy means the internal CAS retry budget was exhausted; the caller
	// may retry after a backoff, state was not corrupted
	ErrBusy ErrorKind = "BUSY"
	// ErrValidation means the request payload failed validation
	ErrValidation ErrorKind = "VALIDATION"
)

// Error is the typed error returned by the core services
type Error struct {
	Kind         ErrorKind
	Message      string
	CurrentState string
}

func (e *Error) Error() string {
	if e.CurrentState != "" {
		return fmt.Sprintf("%s: %s (current state: %s)", e.Kind, e.Message, e.CurrentState)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a typed error
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewTransitionError creates an InvalidTransition error carrying the current
// state of the track the caller tried to advance
func NewTransitionError(current string, format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidTransition, Message: fmt.Sprintf(format, args...), CurrentState: current}
}

// KindOf extracts the ErrorKind from err, or "" if err is not a typed error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a typed error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
