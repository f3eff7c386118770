package rop

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmpty is the error carried by an empty result when it is unwrapped.
var ErrEmpty = errors.New("rop: empty result")

type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	result    T
	err       error
	isSuccess bool
	isCancel  bool
	hasResult bool
}

func Success[T any](r T) Result[T] {
	return Result[T]{
		result:    r,
		err:       nil,
		isSuccess: true,
		isCancel:  false,
		createdAt: time.Now().UTC(),
		hasResult: true,
		id:        uuid.New(),
	}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{
		err:       err,
		isSuccess: false,
		isCancel:  false,
		createdAt: time.Now().UTC(),
		hasResult: false,
		id:        uuid.New(),
	}
}

func Cancel[T any](err error) Result[T] {
	return Result[T]{
		err:       err,
		isSuccess: false,
		isCancel:  true,
		createdAt: time.Now().UTC(),
		hasResult: false,
		id:        uuid.New(),
	}
}

// None returns an empty result: neither success nor a failure with an error.
// Unwrapping it yields ErrEmpty.
func None[T any]() Result[T] {
	return Result[T]{
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

// Some is an alias of Success for option-style steps.
func Some[T any](r T) Result[T] {
	return Success(r)
}

// FromPair converts a Go (value, error) pair into a Result. Context
// cancellation and deadline errors become cancelled results.
func FromPair[T any](v T, err error) Result[T] {
	if err == nil {
		return Success(v)
	}
	if IsCancellationError(err) {
		return Cancel[T](err)
	}
	return Fail[T](err)
}

// Erase converts a typed result into a Result[any] keeping its id and state.
func Erase[T any](from Result[T]) Result[any] {
	return Result[any]{
		result:    from.result,
		err:       from.err,
		isSuccess: from.isSuccess,
		isCancel:  from.isCancel,
		createdAt: from.createdAt,
		hasResult: from.hasResult,
		id:        from.id,
	}
}

func (r Result[T]) Result() T {
	return r.result
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) IsSuccess() bool {
	return r.isSuccess
}

// IsFailure reports whether the result is a failure, a cancellation or empty.
func (r Result[T]) IsFailure() bool {
	return !r.isSuccess
}

func (r Result[T]) IsCancel() bool {
	return r.isCancel
}

func (r Result[T]) HasResult() bool {
	return r.hasResult
}

func (r Result[T]) CreatedAt() time.Time {
	return r.createdAt
}

func (r Result[T]) IsEmpty() bool {
	return r.err == nil && !r.isCancel && !r.isSuccess
}

func (r Result[T]) Id() uuid.UUID {
	return r.id
}

// Unwrap implements Fallible.
func (r Result[T]) Unwrap() (any, error) {
	switch {
	case r.isSuccess:
		return r.result, nil
	case r.IsEmpty():
		return nil, ErrEmpty
	default:
		return nil, r.err
	}
}
