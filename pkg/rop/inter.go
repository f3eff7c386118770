package rop

import "context"

// Fallible is a value with a discriminated success/error view.
// A nil error means success and the first return value is the payload.
type Fallible interface {
	Unwrap() (any, error)
}

// Awaitable is a value whose result becomes available later.
// Await blocks until the value is resolved or ctx is done.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}
