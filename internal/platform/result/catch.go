package result

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// Catch is the default catching policy: a returned error becomes a
// failure via wrap, as does a recovered panic whose value is an ordinary
// error. runtime.Error panics and non-error panic values propagate.
// Cancellation errors reach wrap with their errors.Is chain intact, so
// callers can still observe context.Canceled through the failure payload.
func Catch[L, R any](op func() (R, error), wrap func(error) L) (res Result[L, R]) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		err, ok := rec.(error)
		if !ok {
			panic(rec)
		}
		var rerr runtime.Error
		if errors.As(err, &rerr) {
			panic(rec)
		}
		res = Failure[R](wrap(err))
	}()

	value, err := op()
	if err != nil {
		return Failure[R](wrap(err))
	}
	return Success[L](value)
}

// CatchCtx is Catch with an explicit context check: a context already
// cancelled skips the operation, and a cancellation observed alongside an
// operation error takes precedence over it.
func CatchCtx[L, R any](ctx context.Context, op func(context.Context) (R, error), wrap func(error) L) Result[L, R] {
	return Catch(func() (R, error) {
		var zero R
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		value, err := op(ctx)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return zero, cerr
			}
			return zero, err
		}
		return value, nil
	}, wrap)
}

// CatchAll additionally recovers runtime.Error panics and non-error panic
// values. Use only at a process boundary, such as the HTTP recovery
// middleware.
func CatchAll[L, R any](op func() (R, error), wrap func(error) L) (res Result[L, R]) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		err, ok := rec.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", rec)
		}
		res = Failure[R](wrap(err))
	}()

	value, err := op()
	if err != nil {
		return Failure[R](wrap(err))
	}
	return Success[L](value)
}

// CatchOnly is the fail-fast policy: only errors matching the declared
// contract are wrapped. Anything else panics, because an undeclared error
// at a call site that promised a closed contract is a programming error.
func CatchOnly[L, R any](op func() (R, error), wrap func(error) L, contract ...error) Result[L, R] {
	value, err := op()
	if err == nil {
		return Success[L](value)
	}
	for _, declared := range contract {
		if errors.Is(err, declared) {
			return Failure[R](wrap(err))
		}
	}
	panic(err)
}

// CatchFunc lifts f into a function returning a Result under the default
// policy, for use inside FlatMap chains.
func CatchFunc[L, A, R any](f func(A) (R, error), wrap func(error) L) func(A) Result[L, R] {
	return func(a A) Result[L, R] {
		return Catch(func() (R, error) { return f(a) }, wrap)
	}
}

// CatchCtxFunc lifts a context-taking f under the CatchCtx policy.
func CatchCtxFunc[L, A, R any](f func(context.Context, A) (R, error), wrap func(error) L) func(context.Context, A) Result[L, R] {
	return func(ctx context.Context, a A) Result[L, R] {
		return CatchCtx(ctx, func(ctx context.Context) (R, error) { return f(ctx, a) }, wrap)
	}
}

// CatchAllFunc lifts f under the catch-all policy.
func CatchAllFunc[L, A, R any](f func(A) (R, error), wrap func(error) L) func(A) Result[L, R] {
	return func(a A) Result[L, R] {
		return CatchAll(func() (R, error) { return f(a) }, wrap)
	}
}

// CatchOnlyFunc lifts f under the fail-fast policy with a fixed contract.
func CatchOnlyFunc[L, A, R any](f func(A) (R, error), wrap func(error) L, contract ...error) func(A) Result[L, R] {
	return func(a A) Result[L, R] {
		return CatchOnly(func() (R, error) { return f(a) }, wrap, contract...)
	}
}
