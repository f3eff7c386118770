package eval

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFallible marks a `?` step whose value has no rop.Fallible view.
	ErrNotFallible = errors.New("eval: step result is not fallible")
	// ErrNotAwaitable marks an `.await` step whose value is not rop.Awaitable.
	ErrNotAwaitable = errors.New("eval: step result is not awaitable")
)

// FaultError is an error raised by a step outside the fallible protocol.
// It ends the evaluation without an outcome.
type FaultError struct {
	Step  int
	Token string
	Err   error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("step %d %q: %v", e.Step, e.Token, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}
