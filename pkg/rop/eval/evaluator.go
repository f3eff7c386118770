package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ib-77/ropipe/internal/logging"
	"github.com/ib-77/ropipe/pkg/rop"
	"github.com/ib-77/ropipe/pkg/rop/plan"
)

// Evaluator runs plans. It holds no per-run state and may be shared.
type Evaluator struct {
	logger        *slog.Logger
	hooks         Hooks
	metrics       *Metrics
	inferFallible bool
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run tracks the lifecycle of one evaluation.
type run struct {
	id    uuid.UUID
	state State
	log   *slog.Logger
}

func (r *run) to(next State) {
	if !r.state.canMoveTo(next) {
		panic(fmt.Sprintf("eval: illegal transition %s -> %s", r.state, next))
	}
	r.log.Debug("state", "from", r.state, "to", next)
	r.state = next
}

// stepResult is the transient result of one step.
type stepResult struct {
	value   any
	failure *rop.Result[any]
}

// Evaluate threads initial through the steps of p. The returned error is
// always a *FaultError; step failures and cancellation are outcomes.
func (e *Evaluator) Evaluate(ctx context.Context, p *plan.Plan, initial any) (Outcome, error) {
	id := uuid.New()
	r := &run{id: id, state: Pending, log: e.logger.With("run_id", id)}
	r.to(Running)

	current := initial
	for i := range p.Len() {
		n := p.Node(i)

		if err := ctx.Err(); err != nil {
			r.log.Debug("cancelled before step", "step", i, "err", err)
			r.to(Failed)
			e.metrics.chain(Failed.String())
			return failed(i, rop.Cancel[any](err)), nil
		}

		res, err := e.apply(ctx, r, n, current)
		if err != nil {
			r.to(Failed)
			e.metrics.chain(resultFault)
			return Outcome{}, err
		}

		if res.failure != nil {
			r.log.Debug("short circuit", "step", i, "token", n.Descriptor.Token(), "err", res.failure.Err())
			if e.hooks.OnShortCircuit != nil {
				e.hooks.OnShortCircuit(ctx, StepEvent{
					RunID:      id,
					Index:      i,
					Descriptor: n.Descriptor,
					Input:      current,
					Err:        res.failure.Err(),
				})
			}
			r.to(Failed)
			e.metrics.chain(Failed.String())
			return failed(i, *res.failure), nil
		}

		current = res.value
	}

	r.to(Completed)
	e.metrics.chain(Completed.String())
	return completed(current), nil
}

func (e *Evaluator) apply(ctx context.Context, r *run, n plan.Node, in any) (stepResult, error) {
	d := n.Descriptor
	shape := d.Kind().String()
	event := StepEvent{RunID: r.id, Index: n.Index, Descriptor: d, Input: in}

	r.log.Debug("step start", "step", n.Index, "token", d.Token(), "shape", shape)
	if e.hooks.OnStepStart != nil {
		e.hooks.OnStepStart(ctx, event)
	}

	start := time.Now()
	res, result, err := e.invoke(ctx, n, in)
	event.Duration = time.Since(start)
	e.metrics.step(shape, result, event.Duration)

	if err != nil {
		r.log.Debug("step fault", "step", n.Index, "token", d.Token(), "error", err)
		return stepResult{}, &FaultError{Step: n.Index, Token: d.Token(), Err: err}
	}

	event.Output = res.value
	if res.failure != nil {
		event.Err = res.failure.Err()
	}
	r.log.Debug("step done", "step", n.Index, "result", result, "duration", event.Duration)
	if e.hooks.OnStepDone != nil {
		e.hooks.OnStepDone(ctx, event)
	}
	return res, nil
}

// invoke calls the step, awaits it when suspending and unwraps it when
// fallible. The string result is the metrics label.
func (e *Evaluator) invoke(ctx context.Context, n plan.Node, in any) (stepResult, string, error) {
	d := n.Descriptor

	raw, err := n.Call(ctx, in)
	if err != nil {
		return stepResult{}, resultFault, err
	}

	if d.Suspending() {
		aw, ok := raw.(rop.Awaitable)
		if !ok {
			return stepResult{}, resultFault, fmt.Errorf("%w: got %T", ErrNotAwaitable, raw)
		}

		raw, err = aw.Await(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				res := rop.Cancel[any](err)
				return stepResult{failure: &res}, resultCancelled, nil
			}
			return stepResult{}, resultFault, err
		}
	}

	if !d.Fallible() && !(e.inferFallible && rop.Detect(raw) == rop.FallibleValue) {
		return stepResult{value: raw}, resultOK, nil
	}

	v, ferr, ok := rop.Unwrap(raw)
	if !ok {
		return stepResult{}, resultFault, fmt.Errorf("%w: got %T", ErrNotFallible, raw)
	}
	if ferr != nil {
		res, label := rop.Fail[any](ferr), resultFailed
		if c, ok := raw.(interface{ IsCancel() bool }); ok && c.IsCancel() {
			res, label = rop.Cancel[any](ferr), resultCancelled
		}
		return stepResult{failure: &res}, label, nil
	}
	return stepResult{value: v}, resultOK, nil
}
