package chain

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/ib-77/ropipe/pkg/rop/core"
	"github.com/ib-77/ropipe/pkg/rop/eval"
	"github.com/ib-77/ropipe/pkg/rop/lambda"
	"github.com/ib-77/ropipe/pkg/rop/plan"
	"github.com/ib-77/ropipe/pkg/rop/step"
	"github.com/ib-77/ropipe/pkg/rop/syntax"
)

// Chain is a built plan together with the evaluator that runs it. It is
// immutable and safe for concurrent runs.
type Chain struct {
	plan *plan.Plan
	eval *eval.Evaluator
}

type Option func(*options)

type options struct {
	mode     Mode
	evalOpts []eval.Option
}

func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithEvaluator configures the evaluator used by Run and RunMany.
func WithEvaluator(opts ...eval.Option) Option {
	return func(o *options) {
		o.evalOpts = append(o.evalOpts, opts...)
	}
}

// Build classifies tokens and binds them against b.
func Build(b *plan.Bindings, tokens []string, opts ...Option) (*Chain, error) {
	descs, err := syntax.ClassifyAll(tokens)
	if err != nil {
		return nil, err
	}
	return Compose(b, descs, opts...)
}

// Compose binds already classified descriptors.
func Compose(b *plan.Bindings, descs []step.Descriptor, opts ...Option) (*Chain, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	descs, err := o.mode.apply(descs)
	if err != nil {
		return nil, err
	}

	p, err := plan.Compose(descs, b)
	if err != nil {
		return nil, err
	}

	return &Chain{plan: p, eval: eval.New(o.evalOpts...)}, nil
}

// Parse builds a chain from `initial => step => ...` and evaluates the
// initial expression.
func Parse(b *plan.Bindings, src string, opts ...Option) (*Chain, any, error) {
	initialSrc, tokens, err := syntax.Split(src)
	if err != nil {
		return nil, nil, err
	}

	c, err := Build(b, tokens, opts...)
	if err != nil {
		return nil, nil, err
	}

	initial, err := lambda.Value(initialSrc)
	if err != nil {
		return nil, nil, err
	}
	return c, initial, nil
}

func (c *Chain) Plan() *plan.Plan {
	return c.plan
}

// Expr renders the nested call expression with `_` as the initial value.
func (c *Chain) Expr() string {
	return c.plan.String()
}

// Run evaluates the chain for one initial value.
func (c *Chain) Run(ctx context.Context, initial any) (eval.Outcome, error) {
	return c.eval.Evaluate(ctx, c.plan, initial)
}

// Run evaluates c and converts the success value to T. Failures and faults
// are both returned as the error.
func Run[T any](ctx context.Context, c *Chain, initial any) (T, error) {
	out, err := c.Run(ctx, initial)
	if err != nil {
		var zero T
		return zero, err
	}
	return eval.As[T](out)
}

type batchResult struct {
	index   int
	outcome eval.Outcome
	err     error
}

// RunMany evaluates the chain once per initial value with up to workers
// concurrent evaluations. A non-positive workers count falls back to the
// worker options in ctx, then to GOMAXPROCS. Outcomes are in input order;
// values never evaluated because ctx was done get a cancelled outcome.
// Faults are joined into the returned error; their outcome slot is a failed
// outcome carrying the fault.
func (c *Chain) RunMany(ctx context.Context, initials []any, workers int) ([]eval.Outcome, error) {
	if workers <= 0 {
		workers = core.GetWorkerMaxCount(ctx, runtime.GOMAXPROCS(0))
	}

	engine := func(ctx context.Context, in core.Indexed[any]) batchResult {
		out, err := c.Run(ctx, in.Value)
		if err != nil {
			out = eval.Faulted(err)
		}
		return batchResult{index: in.Index, outcome: out, err: err}
	}

	handlers := core.CancellationHandlers[core.Indexed[any], batchResult]{
		OnCancel: func(ctx context.Context, inputCh <-chan core.Indexed[any], outCh chan<- batchResult) {
			for in := range inputCh {
				outCh <- batchResult{index: in.Index, outcome: eval.Canceled(ctx.Err())}
			}
		},
		OnCancelUnprocessed: func(ctx context.Context, in core.Indexed[any], outCh chan<- batchResult) {
			outCh <- batchResult{index: in.Index, outcome: eval.Canceled(ctx.Err())}
		},
		OnCancelProcessed: func(_ context.Context, _ core.Indexed[any], processed batchResult, outCh chan<- batchResult) {
			outCh <- processed
		},
	}

	inputCh := core.Enumerate(ctx, initials)
	outCh := make(chan batchResult)
	wg := &sync.WaitGroup{}

	for range workers {
		wg.Add(1)
		go core.Locomotive(ctx, inputCh, outCh, engine, handlers, wg)
	}

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make([]eval.Outcome, len(initials))
	seen := make([]bool, len(initials))
	var faults []error
	for r := range outCh {
		outcomes[r.index] = r.outcome
		seen[r.index] = true
		if r.err != nil {
			faults = append(faults, fmt.Errorf("initial %d: %w", r.index, r.err))
		}
	}

	for i := range outcomes {
		if !seen[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			outcomes[i] = eval.Canceled(err)
		}
	}

	return outcomes, errors.Join(faults...)
}
