package chain

import (
	"fmt"

	"github.com/ib-77/ropipe/pkg/rop/step"
	"github.com/ib-77/ropipe/pkg/rop/syntax"
)

// Mode restricts the modifiers a chain accepts.
type Mode uint8

const (
	// Mixed accepts every shape and modifier combination.
	Mixed Mode = iota
	// PlainOnly rejects `?` and `.await`.
	PlainOnly
	// TryOnly treats every step as `?`. Steps may omit the suffix.
	TryOnly
	// AwaitTryOnly treats every step as `.await?`. Steps may omit the suffix.
	AwaitTryOnly
)

func (m Mode) String() string {
	switch m {
	case Mixed:
		return "mixed"
	case PlainOnly:
		return "plain"
	case TryOnly:
		return "try"
	case AwaitTryOnly:
		return "await_try"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode reads a mode name; the empty string is Mixed.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "mixed":
		return Mixed, nil
	case "plain":
		return PlainOnly, nil
	case "try":
		return TryOnly, nil
	case "await_try":
		return AwaitTryOnly, nil
	default:
		return Mixed, fmt.Errorf("chain: unknown mode %q", s)
	}
}

// apply enforces the mode on descs. Try modes add their suffix to every step
// written without one, lambdas included; a written suffix that contradicts
// the mode is rejected.
func (m Mode) apply(descs []step.Descriptor) ([]step.Descriptor, error) {
	var fallible, suspending bool
	switch m {
	case Mixed:
		return descs, nil
	case PlainOnly:
	case TryOnly:
		fallible = true
	case AwaitTryOnly:
		fallible, suspending = true, true
	default:
		return nil, fmt.Errorf("chain: unknown mode %d", uint8(m))
	}

	out := make([]step.Descriptor, len(descs))
	for i, d := range descs {
		written := d.Fallible() || d.Suspending()
		if written && (d.Fallible() != fallible || d.Suspending() != suspending) {
			want := step.New(d.Shape(), fallible, suspending).Suffix()
			if want == "" {
				want = "no suffix"
			}
			return nil, syntax.Errorf(i, d.Token(), 0, "%s chains require %s", m, want)
		}
		out[i] = step.New(d.Shape(), fallible, suspending).WithToken(d.Token())
	}
	return out, nil
}
