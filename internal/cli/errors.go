package cli

import (
	"errors"
	"fmt"

	"github.com/ib-77/ropipe/pkg/rop/eval"
	"github.com/ib-77/ropipe/pkg/rop/plan"
	"github.com/ib-77/ropipe/pkg/rop/syntax"
)

// Exit codes of the ropipe command.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitSyntax = 2
	ExitFault  = 3
	ExitUsage  = 4
)

// UsageError marks bad flags, arguments or chain files.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usagef(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// FailedError reports a run that ended in a failed outcome.
type FailedError struct {
	Outcome eval.Outcome
	Token   string
	// Index is the position of the initial value in a batch, -1 otherwise.
	Index int
}

func (e *FailedError) Error() string {
	prefix := ""
	if e.Index >= 0 {
		prefix = fmt.Sprintf("initial %d: ", e.Index)
	}
	if e.Outcome.IsCancel() {
		return fmt.Sprintf("%scancelled at step %d: %v", prefix, e.Outcome.Step(), e.Outcome.Err())
	}
	return fmt.Sprintf("%sstep %d %q failed: %v", prefix, e.Outcome.Step(), e.Token, e.Outcome.Err())
}

func (e *FailedError) Unwrap() error { return e.Outcome.Err() }

// ExitCode maps an error returned by this package to a process exit code.
// Errors of unknown origin are faults.
func ExitCode(err error) int {
	var (
		failed *FailedError
		syn    *syntax.Error
		bind   *plan.BindError
		fault  *eval.FaultError
		usage  *UsageError
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &fault):
		return ExitFault
	case errors.As(err, &usage):
		return ExitUsage
	case errors.As(err, &syn), errors.As(err, &bind):
		return ExitSyntax
	case errors.As(err, &failed):
		return ExitFailed
	default:
		return ExitFault
	}
}
