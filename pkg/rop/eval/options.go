package eval

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ib-77/ropipe/pkg/rop/step"
)

// StepEvent describes one step of a running evaluation.
type StepEvent struct {
	RunID      uuid.UUID
	Index      int
	Descriptor step.Descriptor
	Input      any
	Output     any
	Err        error
	Duration   time.Duration
}

// Hooks are optional callbacks invoked synchronously by the evaluator.
type Hooks struct {
	OnStepStart    func(ctx context.Context, e StepEvent)
	OnStepDone     func(ctx context.Context, e StepEvent)
	OnShortCircuit func(ctx context.Context, e StepEvent)
}

type Option func(*Evaluator)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithHooks(h Hooks) Option {
	return func(e *Evaluator) {
		e.hooks = h
	}
}

func WithMetrics(m *Metrics) Option {
	return func(e *Evaluator) {
		e.metrics = m
	}
}

// WithInferredFallibility makes steps without `?` short-circuit too when
// their value is rop.Fallible.
func WithInferredFallibility(enabled bool) Option {
	return func(e *Evaluator) {
		e.inferFallible = enabled
	}
}
