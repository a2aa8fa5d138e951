// Package result provides Result, the two-variant outcome every core
// operation returns: Success carrying a payload, or Failure carrying one
// member of the domain failure taxonomy.
//
// Consumers inspect the variant before reading it:
//
//	res := repo.Get(ctx, id)
//	if res.IsFailure() {
//	    return result.Propagate[View](res)
//	}
//	acct := res.Payload()
//
// Reading the payload of a Failure, or the error of a Success, is a
// programming error and panics with ErrWrongVariant.
package result

import (
	"errors"
	"fmt"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
)

// ErrWrongVariant is the panic value (wrapped) raised when an accessor is
// called on the wrong variant or on a zero Result.
var ErrWrongVariant = errors.New("result: wrong variant")

// Empty is the payload of operations that succeed without a value.
type Empty = struct{}

// Result is either Success(payload) or Failure(err), never both. The zero
// value is neither and every accessor except IsSuccess/IsFailure panics on it.
type Result[T any] struct {
	payload T
	err     error
	ok      bool
}

// Success wraps payload in a successful Result.
func Success[T any](payload T) Result[T] {
	return Result[T]{payload: payload, ok: true}
}

// Failure wraps err in a failed Result. The error is normalized onto the
// taxonomy with domain.Normalize, so a Failure never carries a foreign error.
// Failure panics if err is nil.
func Failure[T any](err error) Result[T] {
	if err == nil {
		panic(fmt.Errorf("%w: Failure called with nil error", ErrWrongVariant))
	}
	return Result[T]{err: domain.Normalize(err)}
}

// Done returns Success(Empty{}).
func Done() Result[Empty] {
	return Success(Empty{})
}

// From converts a Go (value, error) pair into a Result.
func From[T any](payload T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(payload)
}

// IsSuccess reports whether r is a Success.
func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// IsFailure reports whether r is a Failure.
func (r Result[T]) IsFailure() bool {
	return !r.ok && r.err != nil
}

// Payload returns the success payload. Panics on a Failure or zero Result.
func (r Result[T]) Payload() T {
	if !r.ok {
		panic(fmt.Errorf("%w: Payload called on %s", ErrWrongVariant, r.variant()))
	}
	return r.payload
}

// Err returns the failure error. Panics on a Success or zero Result.
func (r Result[T]) Err() error {
	if r.err == nil {
		panic(fmt.Errorf("%w: Err called on %s", ErrWrongVariant, r.variant()))
	}
	return r.err
}

// Kind returns the taxonomy kind of a Failure. Panics on a Success or zero
// Result.
func (r Result[T]) Kind() domain.Kind {
	kind, _ := domain.KindOf(r.Err())
	return kind
}

// Get returns the Result as a Go (value, error) pair for code that prefers
// explicit error returns. A zero Result panics.
func (r Result[T]) Get() (T, error) {
	if r.ok {
		return r.payload, nil
	}
	var zero T
	return zero, r.Err()
}

// String implements fmt.Stringer.
func (r Result[T]) String() string {
	switch {
	case r.ok:
		return fmt.Sprintf("Success(%v)", r.payload)
	case r.err != nil:
		return fmt.Sprintf("Failure(%s: %v)", r.Kind(), r.err)
	default:
		return "Result(zero)"
	}
}

func (r Result[T]) variant() string {
	switch {
	case r.ok:
		return "Success"
	case r.err != nil:
		return "Failure"
	default:
		return "zero Result"
	}
}

// Propagate re-types a Failure so it can be returned from an operation with a
// different payload type. The error passes through unchanged. Panics if r is
// not a Failure.
func Propagate[U, T any](r Result[T]) Result[U] {
	return Result[U]{err: r.Err()}
}

// Map applies fn to the payload of a Success. A Failure is propagated
// unchanged and fn is not called.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Propagate[U](r)
	}
	return Success(fn(r.payload))
}

// Then chains an operation that itself returns a Result. A Failure is
// propagated unchanged and fn is not called.
func Then[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if !r.ok {
		return Propagate[U](r)
	}
	return fn(r.payload)
}
