package core

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrStorage      = errors.New("storage error")
)

// Error is a classified domain error. Msg is what callers show to the user.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// Validation builds an ErrValidation error.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds an ErrNotFound error for the given entity and id.
func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf("%s not found: %s", entity, id)}
}

// InvalidState builds an ErrInvalidState error.
func InvalidState(format string, args ...any) error {
	return &Error{Kind: ErrInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// Storage wraps a persistence failure.
func Storage(msg string, err error) error {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &Error{Kind: ErrStorage, Msg: msg, Err: err}
}

// KindOf returns a short name for the error kind, "internal" when unclassified.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}
