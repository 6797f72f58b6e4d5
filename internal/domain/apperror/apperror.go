package apperror

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed set of failure classes that cross the core boundary.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindSystem     Kind = "system"
)

// Error is the only shape error information leaves the core in. Transport
// status mapping happens outside, in the HTTP layer.
type Error struct {
	Kind    Kind
	Message string
	Details []string

	cause error
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, strings.Join(e.Details, "; "))
}

// Unwrap keeps the original error chain observable, so callers can still
// match context.Canceled and friends through errors.Is.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error without changing the outward
// payload.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func Validation(msg string, details ...string) *Error {
	return newError(KindValidation, msg, details)
}

func Conflict(msg string, details ...string) *Error {
	return newError(KindConflict, msg, details)
}

// StaleState is the optimistic-lock mismatch: a Conflict whose details
// carry expected vs actual state so the caller can reload and retry.
func StaleState(msg string, details ...string) *Error {
	return newError(KindConflict, msg, details)
}

func NotFound(msg string, details ...string) *Error {
	return newError(KindNotFound, msg, details)
}

func System(msg string, details ...string) *Error {
	return newError(KindSystem, msg, details)
}

func newError(kind Kind, msg string, details []string) *Error {
	return &Error{
		Kind:    kind,
		Message: msg,
		Details: append([]string(nil), details...),
	}
}

func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

func IsValidation(err error) bool { return IsKind(err, KindValidation) }
func IsConflict(err error) bool   { return IsKind(err, KindConflict) }
func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }
func IsSystem(err error) bool     { return IsKind(err, KindSystem) }

// FromError classifies an arbitrary collaborator error into the taxonomy.
// Already-typed errors pass through unchanged; cancellation and everything
// else become System failures with the cause preserved for errors.Is.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return System("operation cancelled", err.Error()).WithCause(err)
	}

	return System("internal error", err.Error()).WithCause(err)
}
