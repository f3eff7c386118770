package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/ib-77/ropipe/internal/builtin"
	"github.com/ib-77/ropipe/internal/logging"
	"github.com/ib-77/ropipe/internal/presentation/tui"
	"github.com/ib-77/ropipe/pkg/rop"
	"github.com/ib-77/ropipe/pkg/rop/chain"
	"github.com/ib-77/ropipe/pkg/rop/core"
	"github.com/ib-77/ropipe/pkg/rop/eval"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	// Source is `initial => step => ...`, or only steps when Initial or
	// Each is set.
	Source  string
	File    string
	Initial string
	Each    []string
	Workers int
	Timeout time.Duration
	Mode    string
	Debug   bool
	// Metrics dumps the evaluator metrics to Stderr after the run.
	Metrics bool
	// Env backs the env.* builtins; nil reads the process environment.
	Env    *builtin.Env
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes one chain. Success values go to Stdout. The returned error
// carries the exit code, see ExitCode.
func Run(ctx context.Context, opts RunOptions) error {
	job, err := Load(opts)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.NewWriter(opts.Stderr, level)

	var reg *prometheus.Registry
	if opts.Metrics {
		reg = prometheus.NewRegistry()
		defer dumpMetrics(reg, opts.Stderr, logger)
	}

	c, err := chain.Build(builtin.Bindings(opts.Env, logger), job.Steps,
		chain.WithMode(job.Mode),
		chain.WithEvaluator(
			eval.WithLogger(logger),
			eval.WithMetrics(newMetrics(reg)),
		),
	)
	if err != nil {
		return err
	}

	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	logger.Debug("running chain", "chain", describe(job.Name, len(job.Steps)), "expr", c.Expr())

	if !job.Batch {
		out, err := c.Run(ctx, job.Initials[0])
		if err != nil {
			return err
		}
		if !out.IsSuccess() {
			return &FailedError{Outcome: out, Token: token(job, out), Index: -1}
		}
		_, err = fmt.Fprintln(opts.Stdout, out.Value())
		return err
	}

	if job.Workers > 0 {
		ctx = core.WithWorkerOptions(ctx, job.Workers)
	}
	outs, err := c.RunMany(ctx, job.Initials, 0)

	var firstFailed error
	painter := tui.NewPainter(opts.Stdout)
	for i, out := range outs {
		switch {
		case out.IsSuccess():
			fmt.Fprintf(opts.Stdout, "%d\t%s\t%v\n", i, painter.Label(tui.StatusOK), out.Value())
		default:
			f := &FailedError{Outcome: out, Token: token(job, out), Index: i}
			fmt.Fprintf(opts.Stdout, "%d\t%s\t%v\n", i, painter.Label(statusOf(f)), out.Err())
			if firstFailed == nil {
				firstFailed = f
			}
		}
	}
	if err != nil {
		return err
	}
	return firstFailed
}

func newMetrics(reg *prometheus.Registry) *eval.Metrics {
	if reg == nil {
		return nil
	}
	return eval.NewMetrics(reg)
}

func token(job *Job, out eval.Outcome) string {
	if i := out.Step(); i >= 0 && i < len(job.Steps) {
		return job.Steps[i]
	}
	return ""
}

func dumpMetrics(reg *prometheus.Registry, w io.Writer, logger *slog.Logger) {
	families, err := reg.Gather()
	if err != nil {
		logger.Error("failed to gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			logger.Error("failed to write metrics", "error", err)
			return
		}
	}
}

func statusOf(err error) tui.Status {
	switch ExitCode(err) {
	case ExitOK:
		return tui.StatusOK
	case ExitFailed:
		var f *FailedError
		if errors.As(err, &f) && f.Outcome.IsCancel() {
			return tui.StatusCanceled
		}
		return tui.StatusFailed
	case ExitSyntax, ExitUsage:
		return tui.StatusInvalid
	default:
		return tui.StatusFault
	}
}

// Report writes err to w with a status label. Joined errors, such as the
// faults of a batch run, get one labelled line each. Nothing is written for
// nil.
func Report(w io.Writer, err error) {
	painter := tui.NewPainter(w)
	for _, e := range rop.GetErrors(err) {
		fmt.Fprintf(w, "%s %v\n", painter.Label(statusOf(e)), e)
	}
}
