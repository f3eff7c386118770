package eval

import "fmt"

// State is the lifecycle of one evaluation.
type State uint8

const (
	Pending State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == Completed || s == Failed
}

func (s State) canMoveTo(next State) bool {
	switch s {
	case Pending:
		return next == Running
	case Running:
		return next == Completed || next == Failed
	default:
		return false
	}
}
