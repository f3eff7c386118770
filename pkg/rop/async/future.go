package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// PanicError is returned by Get and Await when the work behind a Future
// panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: future panicked: %v", e.Value)
}

type Future[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

// New returns a pending Future and the function that resolves it.
// Only the first call of resolve has an effect.
func New[T any]() (*Future[T], func(T)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, func(v T) { f.resolve(v, nil) }
}

// Resolved returns a Future that already holds v.
func Resolved[T any](v T) *Future[T] {
	f, resolve := New[T]()
	resolve(v)
	return f
}

// Go runs fn in a new goroutine and returns a Future for its result.
// A panic in fn is captured and reported as *PanicError.
func Go[T any](ctx context.Context, fn func(ctx context.Context) T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.resolve(zero, &PanicError{Value: r, Stack: debug.Stack()})
			}
		}()

		f.resolve(fn(ctx), nil)
	}()

	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsResolved reports whether the future already holds its result.
func (f *Future[T]) IsResolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get waits for the future. A resolved future wins over a done context.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	default:
	}

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Await implements rop.Awaitable.
func (f *Future[T]) Await(ctx context.Context) (any, error) {
	v, err := f.Get(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}
