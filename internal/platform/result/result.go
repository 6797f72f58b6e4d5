package result

import (
	"context"
	"reflect"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// Unit is the empty success payload for operations that only validate.
type Unit struct{}

// Result holds exactly one of a failure of type L or a success of type R.
// The zero value is an empty failure; build values through Success and
// Failure, which reject nil pointer/interface payloads.
type Result[L, R any] struct {
	failure L
	value   R
	ok      bool
}

func Success[L, R any](value R) Result[L, R] {
	if isNilPayload(value) {
		panic("result: nil success payload")
	}
	return Result[L, R]{value: value, ok: true}
}

// Failure takes the success type parameter first so call sites can
// name it and let the failure type infer from the argument.
func Failure[R, L any](failure L) Result[L, R] {
	if isNilPayload(failure) {
		panic("result: nil failure payload")
	}
	return Result[L, R]{failure: failure}
}

// OK is Success with a Unit payload.
func OK[L any]() Result[L, Unit] {
	return Result[L, Unit]{value: Unit{}, ok: true}
}

func (r Result[L, R]) IsSuccess() bool {
	return r.ok
}

func (r Result[L, R]) IsFailure() bool {
	return !r.ok
}

// Get is the optional view: the success value if present, dropping any
// failure payload.
func (r Result[L, R]) Get() (R, bool) {
	return r.value, r.ok
}

func (r Result[L, R]) Failure() (L, bool) {
	return r.failure, !r.ok
}

func (r Result[L, R]) GetOrElse(fallback R) R {
	if r.ok {
		return r.value
	}
	return fallback
}

func (r Result[L, R]) GetOrElseCompute(compute func() R) R {
	if r.ok {
		return r.value
	}
	return compute()
}

// Recover turns a failure into a success using the supplied function.
func (r Result[L, R]) Recover(f func(L) R) Result[L, R] {
	if r.ok {
		return r
	}
	return Success[L](f(r.failure))
}

// RecoverWith turns a failure into another Result, allowing recovery to
// fail again.
func (r Result[L, R]) RecoverWith(f func(L) Result[L, R]) Result[L, R] {
	if r.ok {
		return r
	}
	return f(r.failure)
}

// FilterOrElse demotes a success that fails the predicate into a failure
// built by onFalse. Failures pass through untouched.
func (r Result[L, R]) FilterOrElse(pred func(R) bool, onFalse func(R) L) Result[L, R] {
	if !r.ok || pred(r.value) {
		return r
	}
	return Failure[R](onFalse(r.value))
}

// Peek runs f on the success value without altering the Result.
func (r Result[L, R]) Peek(f func(R)) Result[L, R] {
	if r.ok {
		f(r.value)
	}
	return r
}

// PeekFailure runs f on the failure value without altering the Result.
func (r Result[L, R]) PeekFailure(f func(L)) Result[L, R] {
	if !r.ok {
		f(r.failure)
	}
	return r
}

// LogFailure logs the failure payload and returns the Result unchanged.
func (r Result[L, R]) LogFailure(ctx context.Context, logger *logging.Logger, msg string) Result[L, R] {
	if !r.ok && logger != nil {
		logger.WarnContext(ctx, msg, "failure", r.failure)
	}
	return r
}

// Map applies f to the success value. Mapping a failure never invokes f
// and returns the same failure retyped.
func Map[L, R, R2 any](r Result[L, R], f func(R) R2) Result[L, R2] {
	if !r.ok {
		return Result[L, R2]{failure: r.failure}
	}
	return Success[L](f(r.value))
}

// FlatMap is monadic bind: it short-circuits on failure.
func FlatMap[L, R, R2 any](r Result[L, R], f func(R) Result[L, R2]) Result[L, R2] {
	if !r.ok {
		return Result[L, R2]{failure: r.failure}
	}
	return f(r.value)
}

// MapFailure applies f to the failure value, leaving successes untouched.
func MapFailure[L, L2, R any](r Result[L, R], f func(L) L2) Result[L2, R] {
	if r.ok {
		return Result[L2, R]{value: r.value, ok: true}
	}
	return Failure[R](f(r.failure))
}

// Fold collapses the Result into a single value. It is total: exactly one
// of the two functions runs for any constructed Result.
func Fold[L, R, T any](r Result[L, R], onFailure func(L) T, onSuccess func(R) T) T {
	if r.ok {
		return onSuccess(r.value)
	}
	return onFailure(r.failure)
}

// Combine returns the first failure in argument order, or OK when every
// Result succeeded.
func Combine[L any](results ...Result[L, Unit]) Result[L, Unit] {
	for _, r := range results {
		if !r.ok {
			return r
		}
	}
	return OK[L]()
}

// Nil pointer and interface payloads are the Go analog of a null content
// inside a variant; empty slices and maps are legitimate values.
func isNilPayload(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
