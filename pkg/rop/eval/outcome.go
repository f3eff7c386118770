package eval

import (
	"errors"

	"github.com/google/uuid"

	"github.com/ib-77/ropipe/pkg/rop"
	"github.com/ib-77/ropipe/pkg/rop/step"
)

// Outcome is the final result of one evaluation.
type Outcome struct {
	result rop.Result[any]
	state  State
	step   int
}

func completed(v any) Outcome {
	return Outcome{result: rop.Success(v), state: Completed, step: -1}
}

func failed(index int, res rop.Result[any]) Outcome {
	return Outcome{result: res, state: Failed, step: index}
}

// Canceled is the outcome of an evaluation that never started because its
// context was done.
func Canceled(err error) Outcome {
	return failed(-1, rop.Cancel[any](err))
}

// Faulted wraps a fault returned by Evaluate into a failed outcome, for
// callers that collect outcomes rather than errors.
func Faulted(err error) Outcome {
	index := -1
	var fe *FaultError
	if errors.As(err, &fe) {
		index = fe.Step
	}
	return failed(index, rop.Fail[any](err))
}

func (o Outcome) Result() rop.Result[any] { return o.result }
func (o Outcome) Value() any              { return o.result.Result() }
func (o Outcome) Err() error              { return o.result.Err() }
func (o Outcome) IsSuccess() bool         { return o.result.IsSuccess() }
func (o Outcome) IsCancel() bool          { return o.result.IsCancel() }
func (o Outcome) State() State            { return o.state }
func (o Outcome) Id() uuid.UUID           { return o.result.Id() }

// Step is the index of the step that failed, -1 for successful outcomes and
// runs cancelled before their first step.
func (o Outcome) Step() int { return o.step }

// As returns the success value converted to T, or the failure error.
func As[T any](o Outcome) (T, error) {
	if !o.IsSuccess() {
		var zero T
		return zero, o.Err()
	}
	return step.As[T](o.Value())
}
