/*
Package result provides Result[T], a two-state container for operations that either
succeed with a value or fail with an error.

Result never panics for business failures. It panics only when a caller reads the arm
that is not there (Value on a failure, Err on a success), because that is a logic bug at
the call site, not bad input.
*/
package result

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrEmptyResult is reported by Err on the zero value, which is neither constructor's output.
var ErrEmptyResult = errors.New("result: zero value Result has no state")

// Result holds either a success value or a failure error.
// The zero value is an uninitialized failure; always build one with Success, Failure, Of or Try.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Success wraps value as a successful Result.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure wraps err as a failed Result. A nil err is a programming error.
func Failure[T any](err error) Result[T] {
	if err == nil {
		panic("result: Failure called with a nil error")
	}
	return Result[T]{err: err}
}

// Of bridges Go's (value, error) return convention into a Result.
func Of[T any](value T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(value)
}

// Try runs fn and captures its outcome. A panic inside fn becomes a failure.
func Try[T any](fn func() (T, error)) (out Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			out = Failure[T](newPanicError(p))
		}
	}()
	return Of(fn())
}

func (r Result[T]) IsSuccess() bool { return r.ok }
func (r Result[T]) IsFailure() bool { return !r.ok }

// Value returns the success payload and panics on a failure.
func (r Result[T]) Value() T {
	if !r.ok {
		panic(fmt.Sprintf("result: Value called on a failure: %v", r.Err()))
	}
	return r.value
}

// Err returns the failure and panics on a success.
func (r Result[T]) Err() error {
	if r.ok {
		panic("result: Err called on a success")
	}
	if r.err == nil {
		return ErrEmptyResult
	}
	return r.err
}

// Get returns the Result in Go's two-value form.
func (r Result[T]) Get() (T, error) {
	if !r.ok {
		var zero T
		return zero, r.Err()
	}
	return r.value, nil
}

// GetOrElse returns the success value or def.
func (r Result[T]) GetOrElse(def T) T {
	if !r.ok {
		return def
	}
	return r.value
}

// GetOrElseGet returns the success value or the supplier's value. The supplier only runs on failure.
func (r Result[T]) GetOrElseGet(supplier func() T) T {
	if !r.ok {
		return supplier()
	}
	return r.value
}

// MapError transforms the failure and leaves a success untouched.
// If fn returns nil the original error is kept: a failure cannot be turned into a success here.
func (r Result[T]) MapError(fn func(error) error) Result[T] {
	if r.ok {
		return r
	}
	if mapped := fn(r.Err()); mapped != nil {
		return Failure[T](mapped)
	}
	return r
}

// OnSuccess calls fn with the value when r succeeded and returns r.
func (r Result[T]) OnSuccess(fn func(T)) Result[T] {
	if r.ok {
		fn(r.value)
	}
	return r
}

// OnFailure calls fn with the error when r failed and returns r.
func (r Result[T]) OnFailure(fn func(error)) Result[T] {
	if !r.ok {
		fn(r.Err())
	}
	return r
}

func (r Result[T]) String() string {
	if r.ok {
		return fmt.Sprintf("Success(%v)", r.value)
	}
	return fmt.Sprintf("Failure(%v)", r.Err())
}

// Map applies fn to the success value. A panic raised by fn is recovered and the
// returned Result is a failure carrying it as a *PanicError.
func Map[T, U any](r Result[T], fn func(T) U) (out Result[U]) {
	if !r.ok {
		return Failure[U](r.Err())
	}
	defer func() {
		if p := recover(); p != nil {
			out = Failure[U](newPanicError(p))
		}
	}()
	return Success(fn(r.value))
}

// FlatMap chains an operation that itself returns a Result. Failures propagate unchanged.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if !r.ok {
		return Failure[U](r.Err())
	}
	return fn(r.value)
}

// Combine evaluates every result. When one or more failed, the combined failure carries all
// of their errors; its message is the "; "-joined concatenation of the individual messages.
func Combine[T any](results ...Result[T]) Result[[]T] {
	values := make([]T, 0, len(results))
	var errs error
	for _, r := range results {
		if !r.ok {
			errs = multierr.Append(errs, r.Err())
			continue
		}
		values = append(values, r.value)
	}
	if errs != nil {
		return Failure[[]T](errs)
	}
	return Success(values)
}

// Errors splits a failure produced by Combine back into its individual errors.
func Errors(err error) []error {
	return multierr.Errors(err)
}

// PanicError carries a value recovered from a panic inside Map or Try.
type PanicError struct {
	Value any
}

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("recovered panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
