package step

import (
	"context"
	"errors"

	"github.com/ib-77/ropipe/pkg/rop"
	"github.com/ib-77/ropipe/pkg/rop/async"
)

// Func is a bound step. It receives the current value of the chain and
// returns the raw step result. A non-nil error is a fault of the step
// itself, not a failure of a fallible step: fallible steps report failure
// through a rop.Fallible result.
type Func func(ctx context.Context, in any) (any, error)

// Pure lifts a context-free function.
func Pure[In, Out any](f func(in In) Out) Func {
	return func(_ context.Context, in any) (any, error) {
		v, err := As[In](in)
		if err != nil {
			return nil, err
		}
		return f(v), nil
	}
}

// Map lifts a plain transformation.
func Map[In, Out any](onSuccess func(ctx context.Context, in In) Out) Func {
	return func(ctx context.Context, in any) (any, error) {
		v, err := As[In](in)
		if err != nil {
			return nil, err
		}
		return onSuccess(ctx, v), nil
	}
}

// Try lifts a function returning (Out, error). The step result is a
// rop.Result[Out]: failed on error, cancelled on context errors.
func Try[In, Out any](onTryExecute func(ctx context.Context, in In) (Out, error)) Func {
	return func(ctx context.Context, in any) (any, error) {
		v, err := As[In](in)
		if err != nil {
			return nil, err
		}
		return rop.FromPair(onTryExecute(ctx, v)), nil
	}
}

// Switch lifts a function that already returns a rop.Result.
func Switch[In, Out any](onSuccess func(ctx context.Context, in In) rop.Result[Out]) Func {
	return func(ctx context.Context, in any) (any, error) {
		v, err := As[In](in)
		if err != nil {
			return nil, err
		}
		return onSuccess(ctx, v), nil
	}
}

// Validate produces a rop.Result[T] holding the input when it is valid and a
// failure with errMsg otherwise.
func Validate[T any](validate func(ctx context.Context, in T) (isValid bool, errMsg string)) Func {
	return func(ctx context.Context, in any) (any, error) {
		v, err := As[T](in)
		if err != nil {
			return nil, err
		}
		if isValid, errMsg := validate(ctx, v); !isValid {
			return rop.Fail[T](errors.New(errMsg)), nil
		}
		return rop.Success(v), nil
	}
}

// Tee runs a side effect and passes the input on unchanged.
func Tee[T any](sideEffect func(ctx context.Context, in T)) Func {
	return func(ctx context.Context, in any) (any, error) {
		v, err := As[T](in)
		if err != nil {
			return nil, err
		}
		sideEffect(ctx, v)
		return in, nil
	}
}

// Async runs f in a goroutine; the step result is a *async.Future[Out].
func Async[In, Out any](f func(ctx context.Context, in In) Out) Func {
	return func(ctx context.Context, in any) (any, error) {
		v, err := As[In](in)
		if err != nil {
			return nil, err
		}
		return async.Go(ctx, func(ctx context.Context) Out {
			return f(ctx, v)
		}), nil
	}
}

// AsyncTry runs f in a goroutine; the step result is a
// *async.Future[rop.Result[Out]].
func AsyncTry[In, Out any](f func(ctx context.Context, in In) (Out, error)) Func {
	return func(ctx context.Context, in any) (any, error) {
		v, err := As[In](in)
		if err != nil {
			return nil, err
		}
		return async.Go(ctx, func(ctx context.Context) rop.Result[Out] {
			return rop.FromPair(f(ctx, v))
		}), nil
	}
}
