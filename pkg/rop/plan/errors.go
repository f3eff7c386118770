package plan

import (
	"errors"
	"fmt"
)

// ErrUnbound is wrapped by BindError.
var ErrUnbound = errors.New("unbound step")

// BindError reports a step whose name has no binding.
type BindError struct {
	Step  int
	Token string
	Name  string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("step %d %q: %v: %s", e.Step, e.Token, ErrUnbound, e.Name)
}

func (e *BindError) Unwrap() error {
	return ErrUnbound
}
