package core

import "context"

// Indexed pairs a value with its position in the input.
type Indexed[T any] struct {
	Index int
	Value T
}

// Enumerate sends values with their index until all are sent or ctx is done,
// then closes the channel.
func Enumerate[T any](ctx context.Context, values []T) <-chan Indexed[T] {
	in := make(chan Indexed[T])

	go func() {
		defer close(in)

		for i, v := range values {
			if ctx.Err() != nil {
				return
			}

			select {
			case in <- Indexed[T]{Index: i, Value: v}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return in
}
