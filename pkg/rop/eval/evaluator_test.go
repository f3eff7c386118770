package eval

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/ropipe/pkg/rop"
	"github.com/ib-77/ropipe/pkg/rop/async"
	"github.com/ib-77/ropipe/pkg/rop/plan"
	"github.com/ib-77/ropipe/pkg/rop/step"
	"github.com/ib-77/ropipe/pkg/rop/syntax"
)

func mustPlan(t *testing.T, b *plan.Bindings, tokens ...string) *plan.Plan {
	t.Helper()
	descs, err := syntax.ClassifyAll(tokens)
	require.NoError(t, err)
	p, err := plan.Compose(descs, b)
	require.NoError(t, err)
	return p
}

// counted wraps fn and counts its invocations.
func counted(n *atomic.Int64, fn step.Func) step.Func {
	return func(ctx context.Context, in any) (any, error) {
		n.Add(1)
		return fn(ctx, in)
	}
}

func TestIdentityLaw(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, nil)
	for _, initial := range []any{nil, 0, "s", []int{1}, rop.Fail[int](errors.New("x"))} {
		out, err := New().Evaluate(context.Background(), p, initial)
		require.NoError(t, err)
		assert.Equal(t, Completed, out.State())
		assert.True(t, out.IsSuccess())
		assert.Equal(t, initial, out.Value())
		assert.Equal(t, -1, out.Step())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := New().Evaluate(ctx, p, 3)
	require.NoError(t, err)
	assert.Equal(t, Completed, out.State())
	assert.Equal(t, 3, out.Value())
}

func TestSequentialThreading(t *testing.T) {
	t.Parallel()

	b := plan.NewBindings().
		Func("inc", step.Pure(func(n int) int { return n + 1 })).
		Func("double", step.Pure(func(n int) int { return n * 2 })).
		Scoped("fmt", "str", step.Pure(func(n int) string { return strconv.Itoa(n) }))

	out, err := New().Evaluate(context.Background(), mustPlan(t, b, "inc", "double", "inc", "fmt::str"), 4)
	require.NoError(t, err)
	assert.Equal(t, "11", out.Value())
}

func TestScenarioWideningAndParsing(t *testing.T) {
	t.Parallel()

	b := plan.NewBindings().
		Func("f", step.Pure(func(x int32) int64 { return int64(x) + 1 })).
		Func("g", step.Pure(func(x int64) string { return strconv.FormatInt(x+1, 10) })).
		Func("h", step.Pure(func(s string) int {
			n, _ := strconv.Atoi(s)
			return n + 10
		}))

	out, err := New().Evaluate(context.Background(), mustPlan(t, b, "f", "g", "h"), int32(123))
	require.NoError(t, err)
	assert.Equal(t, 135, out.Value())
}

func TestScenarioOptionSteps(t *testing.T) {
	t.Parallel()

	b := plan.NewBindings().
		Func("add_one", step.Switch(func(_ context.Context, x int) rop.Result[int] { return rop.Some(x + 1) })).
		Func("double", step.Switch(func(_ context.Context, x int) rop.Result[int] { return rop.Some(x * 2) }))

	out, err := New().Evaluate(context.Background(), mustPlan(t, b, "add_one?", "double?"), 5)
	require.NoError(t, err)

	v, err := As[int](out)
	require.NoError(t, err)
	assert.Equal(t, 12, v)
}

func TestShortCircuitLaw(t *testing.T) {
	t.Parallel()

	errTooSmall := errors.New("input must be greater than 10")
	var doubled, after atomic.Int64

	b := plan.NewBindings().
		Func("f", step.Try(func(_ context.Context, x int) (int, error) {
			if x <= 10 {
				return 0, errTooSmall
			}
			return x, nil
		})).
		Func("double", counted(&doubled, step.Pure(func(x int) int { return x * 2 }))).
		Func("after", counted(&after, step.Pure(func(x int) int { return x })))

	out, err := New().Evaluate(context.Background(), mustPlan(t, b, "double", "f?", "double", "after"), 5)
	require.NoError(t, err)

	assert.Equal(t, Failed, out.State())
	assert.False(t, out.IsCancel())
	assert.Equal(t, 1, out.Step())
	assert.Same(t, errTooSmall, out.Err(), "the step error is surfaced unchanged")
	assert.Equal(t, int64(1), doubled.Load())
	assert.Zero(t, after.Load())
}

func TestNoneShortCircuits(t *testing.T) {
	t.Parallel()

	var after atomic.Int64
	b := plan.NewBindings().
		Func("none", step.Switch(func(context.Context, int) rop.Result[int] { return rop.None[int]() })).
		Func("after", counted(&after, step.Pure(func(x int) int { return x })))

	out, err := New().Evaluate(context.Background(), mustPlan(t, b, "none?", "after"), 1)
	require.NoError(t, err)
	assert.ErrorIs(t, out.Err(), rop.ErrEmpty)
	assert.Zero(t, after.Load())
}

func TestSuspensionOrdering(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var order []string
	record := func(name string, delay time.Duration, suspend bool) step.Func {
		return func(ctx context.Context, in any) (any, error) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			if !suspend {
				return in.(string) + name, nil
			}
			return async.Go(ctx, func(context.Context) string {
				time.Sleep(delay)
				return in.(string) + name
			}), nil
		}
	}

	b := plan.NewBindings().
		Func("slow", record("slow", 30*time.Millisecond, true)).
		Func("fast", record("fast", time.Millisecond, true)).
		Func("plain", record("plain", 0, false))

	out, err := New().Evaluate(context.Background(), mustPlan(t, b, "slow.await", "plain", "fast.await", "plain"), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"slow", "plain", "fast", "plain"}, order)
	assert.Equal(t, "slowplainfastplain", out.Value())
}

func TestAwaitTry(t *testing.T) {
	t.Parallel()

	errOdd := errors.New("odd")
	b := plan.NewBindings().Func("even", step.AsyncTry(func(_ context.Context, x int) (int, error) {
		if x%2 != 0 {
			return 0, errOdd
		}
		return x / 2, nil
	}))
	p := mustPlan(t, b, "even.await?", "even.await?")

	out, err := New().Evaluate(context.Background(), p, 12)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Value())

	out, err = New().Evaluate(context.Background(), p, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Step())
	assert.ErrorIs(t, out.Err(), errOdd)
}

func TestCancelledBeforeStep(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var second atomic.Int64

	b := plan.NewBindings().
		Func("stop", func(_ context.Context, in any) (any, error) {
			cancel()
			return in, nil
		}).
		Func("second", counted(&second, step.Pure(func(x int) int { return x })))

	out, err := New().Evaluate(ctx, mustPlan(t, b, "stop", "second"), 1)
	require.NoError(t, err)
	assert.Equal(t, Failed, out.State())
	assert.True(t, out.IsCancel())
	assert.Equal(t, 1, out.Step())
	assert.ErrorIs(t, out.Err(), context.Canceled)
	assert.Zero(t, second.Load())
}

func TestCancelledDuringSuspension(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	b := plan.NewBindings().Func("never", func(context.Context, any) (any, error) {
		f, _ := async.New[int]()
		return f, nil
	})

	start := time.Now()
	out, err := New().Evaluate(ctx, mustPlan(t, b, "never.await"), 1)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, out.IsCancel())
	assert.Equal(t, 0, out.Step())
	assert.ErrorIs(t, out.Err(), context.DeadlineExceeded)
}

func TestCancelledResultKeepsFlag(t *testing.T) {
	t.Parallel()

	b := plan.NewBindings().Func("c", step.Switch(func(context.Context, int) rop.Result[int] {
		return rop.Cancel[int](context.Canceled)
	}))

	out, err := New().Evaluate(context.Background(), mustPlan(t, b, "c?"), 1)
	require.NoError(t, err)
	assert.True(t, out.IsCancel())
}

func TestFaults(t *testing.T) {
	t.Parallel()

	errStep := errors.New("step exploded")
	b := plan.NewBindings().
		Func("ok", step.Pure(func(x int) int { return x })).
		Func("boom", func(context.Context, any) (any, error) { return nil, errStep }).
		Func("plain", step.Pure(func(x int) int { return x })).
		Func("panics", step.Async(func(context.Context, int) int { panic("inside future") }))

	tests := []struct {
		name   string
		tokens []string
		target error
		step   int
	}{
		{"step error", []string{"ok", "boom?"}, errStep, 1},
		{"not fallible", []string{"plain?"}, ErrNotFallible, 0},
		{"not awaitable", []string{"ok", "ok", "plain.await"}, ErrNotAwaitable, 2},
		{"input type", []string{"ok"}, step.ErrInputType, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			initial := any(1)
			if tt.name == "input type" {
				initial = "one"
			}

			out, err := New().Evaluate(context.Background(), mustPlan(t, b, tt.tokens...), initial)
			assert.Equal(t, Outcome{}, out)

			var fe *FaultError
			require.True(t, errors.As(err, &fe), "want *FaultError, got %v", err)
			assert.Equal(t, tt.step, fe.Step)
			assert.Equal(t, tt.tokens[tt.step], fe.Token)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("panic in future", func(t *testing.T) {
		t.Parallel()

		_, err := New().Evaluate(context.Background(), mustPlan(t, b, "panics.await"), 1)
		var pe *async.PanicError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "inside future", pe.Value)
	})
}

func TestPanicPropagates(t *testing.T) {
	t.Parallel()

	b := plan.NewBindings().Func("p", func(context.Context, any) (any, error) { panic("raw") })
	p := mustPlan(t, b, "p")

	assert.PanicsWithValue(t, "raw", func() {
		_, _ = New().Evaluate(context.Background(), p, 1)
	})
}

func TestPassThroughWithoutModifiers(t *testing.T) {
	t.Parallel()

	errBad := errors.New("bad")
	b := plan.NewBindings().
		Func("try", step.Try(func(context.Context, int) (int, error) { return 0, errBad })).
		Func("later", step.Async(func(_ context.Context, x int) int { return x })).
		Func("describe", step.Pure(func(v any) string { return fmt.Sprintf("%T", v) }))

	out, err := New().Evaluate(context.Background(), mustPlan(t, b, "try", "describe"), 1)
	require.NoError(t, err)
	assert.Equal(t, "rop.Result[int]", out.Value())

	out, err = New().Evaluate(context.Background(), mustPlan(t, b, "later", "describe"), 1)
	require.NoError(t, err)
	assert.Equal(t, "*async.Future[int]", out.Value())

	out, err = New(WithInferredFallibility(true)).Evaluate(context.Background(), mustPlan(t, b, "try", "describe"), 1)
	require.NoError(t, err)
	assert.Equal(t, Failed, out.State())
	assert.Same(t, errBad, out.Err())
}

func TestHooks(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var events []string
	note := func(kind string) func(context.Context, StepEvent) {
		return func(_ context.Context, e StepEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, fmt.Sprintf("%s:%d:%s", kind, e.Index, e.Descriptor))
		}
	}

	b := plan.NewBindings().
		Func("inc", step.Pure(func(x int) int { return x + 1 })).
		Func("positive", step.Validate(func(_ context.Context, x int) (bool, string) { return x > 0, "not positive" }))

	e := New(WithHooks(Hooks{
		OnStepStart:    note("start"),
		OnStepDone:     note("done"),
		OnShortCircuit: note("short"),
	}))

	out, err := e.Evaluate(context.Background(), mustPlan(t, b, "inc", "positive?", "inc"), -5)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Step())
	assert.Equal(t, []string{
		"start:0:inc", "done:0:inc",
		"start:1:positive?", "done:1:positive?",
		"short:1:positive?",
	}, events)
}

func TestStateTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, Pending.canMoveTo(Running))
	assert.False(t, Pending.canMoveTo(Completed))
	assert.True(t, Running.canMoveTo(Failed))
	assert.False(t, Completed.canMoveTo(Running))
	assert.False(t, Failed.canMoveTo(Completed))
	assert.True(t, Failed.IsTerminal())
	assert.False(t, Running.IsTerminal())
}

func TestFaultedOutcome(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("batch: %w", &FaultError{Step: 2, Token: "f", Err: errors.New("x")})
	out := Faulted(err)
	assert.Equal(t, Failed, out.State())
	assert.Equal(t, 2, out.Step())
	assert.Same(t, err, out.Err())

	c := Canceled(context.Canceled)
	assert.True(t, c.IsCancel())
	assert.Equal(t, -1, c.Step())
}
