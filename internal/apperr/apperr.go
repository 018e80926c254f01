package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP layer can pick a status code
// without inspecting messages.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindInsufficientStock
	KindAuthentication
	KindInvariantViolation
	KindInfrastructure
)

// HTTPStatus maps an error kind to the status code returned to clients.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	case KindAuthentication:
		return 401
	case KindInfrastructure:
		return 500
	default:
		// Validation, InsufficientStock, InvariantViolation
		return 400
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindAuthentication:
		return "authentication"
	case KindInvariantViolation:
		return "invariant_violation"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Error carries a kind plus a human-readable message. The wrapped cause, if
// any, stays internal and never reaches clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return New(KindInsufficientStock, format, args...)
}

func Authentication(format string, args ...interface{}) *Error {
	return New(KindAuthentication, format, args...)
}

func InvariantViolation(format string, args ...interface{}) *Error {
	return New(KindInvariantViolation, format, args...)
}

func Infrastructure(err error, format string, args ...interface{}) *Error {
	return Wrap(KindInfrastructure, err, format, args...)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// From returns err as *Error, wrapping anything unclassified as an
// infrastructure failure so callers always see a tagged kind.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Infrastructure(err, "internal error")
}
