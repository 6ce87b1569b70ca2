package domain

import "fmt"

// Result is the discriminated outcome of a domain operation: either a success
// carrying no errors, or a failure carrying at least one Error.
type Result struct {
	success bool
	errs    []Error
}

// Ok creates a successful Result.
func Ok() Result {
	return Result{success: true}
}

// Fail creates a failed Result from one or more errors.
// It panics if no errors are given; a failure without a cause is a bug.
func Fail(errs ...Error) Result {
	if len(errs) == 0 {
		panic("domain: failed result must carry at least one error")
	}
	return Result{errs: errs}
}

// IsSuccess reports whether the result is a success.
func (r Result) IsSuccess() bool { return r.success }

// IsFailure reports whether the result is a failure.
func (r Result) IsFailure() bool { return !r.success }

// Errors returns the errors carried by a failed result. Empty on success.
func (r Result) Errors() []Error { return r.errs }

// TypedResult is a Result that carries a value on success.
type TypedResult[T any] struct {
	Result
	value T
}

// OkWith creates a successful TypedResult carrying a value.
func OkWith[T any](value T) TypedResult[T] {
	return TypedResult[T]{Result: Ok(), value: value}
}

// FailWith creates a failed TypedResult from one or more errors.
func FailWith[T any](errs ...Error) TypedResult[T] {
	return TypedResult[T]{Result: Fail(errs...)}
}

// Value returns the carried value. Calling Value on a failed result is a
// programming error and panics rather than handing out a zero value.
func (r TypedResult[T]) Value() T {
	if r.IsFailure() {
		panic(fmt.Sprintf("domain: Value called on failed result: %v", r.errs))
	}
	return r.value
}
