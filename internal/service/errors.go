package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service errors for the HTTP layer.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindConflict    ErrorKind = "conflict"
	KindNoOp        ErrorKind = "no_op"
	KindProvider    ErrorKind = "provider"
	KindPersistence ErrorKind = "persistence"
)

// Error is returned by every service operation that fails for a reason the
// caller can act on.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err != nil && e.Kind == KindPersistence:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or "" if err is not a service error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err is a service error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func ValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func ConflictError(msg string, err error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func NoOpError(msg string) error {
	return &Error{Kind: KindNoOp, Message: msg}
}

func ProviderError(err error) error {
	return &Error{Kind: KindProvider, Err: err}
}

func PersistenceError(msg string, err error) error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}
