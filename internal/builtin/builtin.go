// Package builtin provides the bindings available to chains run from the
// command line.
package builtin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ib-77/ropipe/internal/logging"
	"github.com/ib-77/ropipe/pkg/rop/plan"
	"github.com/ib-77/ropipe/pkg/rop/step"
)

// Entry documents one builtin.
type Entry struct {
	Name  string
	Usage string
}

var ErrNegative = errors.New("negative input")

// Env is the receiver behind the env.* methods.
type Env struct {
	lookup func(string) (string, bool)
}

// NewEnv reads variables with lookup; nil means os.LookupEnv.
func NewEnv(lookup func(string) (string, bool)) *Env {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Env{lookup: lookup}
}

// Lookup returns the value of the named variable, failing when it is unset.
func (e *Env) Lookup(_ context.Context, name string) (string, error) {
	v, ok := e.lookup(name)
	if !ok {
		return "", fmt.Errorf("env: %s is not set", name)
	}
	return v, nil
}

// Expand replaces ${var} and $var references.
func (e *Env) Expand(_ context.Context, s string) string {
	return os.Expand(s, func(name string) string {
		v, _ := e.lookup(name)
		return v
	})
}

// Delay is the pause used by the suspending builtins.
const Delay = 10 * time.Millisecond

// Bindings returns the builtin bindings with env bound to the given receiver.
// The tap step writes to logger at debug level; nil discards.
func Bindings(env *Env, logger *slog.Logger) *plan.Bindings {
	if env == nil {
		env = NewEnv(nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return plan.NewBindings().
		Func("inc", step.Pure(func(n int) int { return n + 1 })).
		Func("dec", step.Pure(func(n int) int { return n - 1 })).
		Func("double", step.Pure(func(n int) int { return n * 2 })).
		Func("square", step.Pure(func(n int) int { return n * n })).
		Func("negate", step.Pure(func(n int) int { return -n })).
		Func("str", step.Pure(func(v any) string { return fmt.Sprint(v) })).
		Func("len", step.Pure(func(s string) int { return len(s) })).
		Func("positive", step.Validate(func(_ context.Context, n int) (bool, string) {
			return n > 0, fmt.Sprintf("%d is not positive", n)
		})).
		Func("tap", step.Tee(func(ctx context.Context, v any) {
			logger.DebugContext(ctx, "tap", "value", v, "type", fmt.Sprintf("%T", v))
		})).
		Func("delay", step.Async(func(ctx context.Context, v any) any {
			sleep(ctx, Delay)
			return v
		})).
		Receiver("env", map[string]step.Func{
			"lookup": step.Try(env.Lookup),
			"expand": step.Map(env.Expand),
		}).
		Scoped("strings", "upper", step.Pure(strings.ToUpper)).
		Scoped("strings", "lower", step.Pure(strings.ToLower)).
		Scoped("strings", "trim", step.Pure(strings.TrimSpace)).
		Scoped("strings", "reverse", step.Pure(reverse)).
		Scoped("strconv", "atoi", step.Try(func(_ context.Context, s string) (int, error) {
			return strconv.Atoi(s)
		})).
		Scoped("strconv", "itoa", step.Pure(strconv.Itoa)).
		Scoped("strconv", "quote", step.Pure(strconv.Quote)).
		Scoped("math", "abs", step.Pure(math.Abs)).
		Scoped("math", "floor", step.Pure(math.Floor)).
		Scoped("math", "sqrt", step.Try(func(_ context.Context, x float64) (float64, error) {
			if x < 0 {
				return 0, fmt.Errorf("sqrt of %v: %w", x, ErrNegative)
			}
			return math.Sqrt(x), nil
		})).
		Scoped("time", "after", step.AsyncTry(func(ctx context.Context, ms int) (int, error) {
			if err := sleep(ctx, time.Duration(ms)*time.Millisecond); err != nil {
				return 0, err
			}
			return ms, nil
		}))
}

// Catalog lists the builtins with their usage, sorted by name.
func Catalog() []Entry {
	return []Entry{
		{"dec", "int -> int"},
		{"delay.await", "any -> any, resolves after a short pause"},
		{"double", "int -> int"},
		{"env.expand", "string -> string, expands $VAR references"},
		{"env.lookup?", "string -> string, fails when the variable is unset"},
		{"inc", "int -> int"},
		{"len", "string -> int"},
		{"math::abs", "float64 -> float64"},
		{"math::floor", "float64 -> float64"},
		{"math::sqrt?", "float64 -> float64, fails on negative input"},
		{"negate", "int -> int"},
		{"positive?", "int -> int, fails unless > 0"},
		{"square", "int -> int"},
		{"str", "any -> string"},
		{"strconv::atoi?", "string -> int, fails on malformed input"},
		{"strconv::itoa", "int -> string"},
		{"strconv::quote", "string -> string"},
		{"strings::lower", "string -> string"},
		{"strings::reverse", "string -> string"},
		{"strings::trim", "string -> string"},
		{"strings::upper", "string -> string"},
		{"tap", "any -> any, logs the value at debug level"},
		{"time::after.await?", "int -> int, waits the given milliseconds"},
	}
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
