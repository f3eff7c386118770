package syntax

import "fmt"

// Error reports a token that matches no step form.
type Error struct {
	Step     int    // index of the step in its chain, -1 when unknown
	Position int    // byte offset of the offending input in Token
	Token    string // the raw token
	Reason   string
}

func (e *Error) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("syntax error in %q at %d: %s", e.Token, e.Position, e.Reason)
	}
	return fmt.Sprintf("syntax error in step %d %q at %d: %s", e.Step, e.Token, e.Position, e.Reason)
}

// Errorf builds an *Error.
func Errorf(step int, token string, pos int, format string, args ...any) *Error {
	return &Error{
		Step:     step,
		Position: pos,
		Token:    token,
		Reason:   fmt.Sprintf(format, args...),
	}
}
