package cli

import (
	"fmt"
	"time"

	"github.com/ib-77/ropipe/internal/config"
	"github.com/ib-77/ropipe/pkg/rop/chain"
	"github.com/ib-77/ropipe/pkg/rop/lambda"
	"github.com/ib-77/ropipe/pkg/rop/syntax"
)

// Job is a chain ready to be built and run.
type Job struct {
	Name     string
	Steps    []string
	Initials []any
	// Batch is set when the initials came from --each or a file's each list.
	Batch   bool
	Mode    chain.Mode
	Timeout time.Duration
	Workers int
}

// Load resolves the chain, its initial values and its settings from the
// command line and an optional chain file. Flags win over the file.
func Load(opts RunOptions) (*Job, error) {
	job := &Job{}

	switch {
	case opts.File != "" && opts.Source != "":
		return nil, usagef("give either a chain or --file, not both")
	case opts.File != "":
		cf, err := config.Load(opts.File)
		if err != nil {
			return nil, &UsageError{Err: err}
		}
		initial, err := cf.InitialValue()
		if err != nil {
			return nil, &UsageError{Err: err}
		}
		job.Name = cf.Name
		job.Steps = cf.Steps
		job.Initials = []any{initial}
		if len(cf.Each) > 0 {
			job.Initials, job.Batch = cf.Each, true
		}
		job.Mode = cf.ChainMode()
		job.Timeout = cf.Timeout
		job.Workers = cf.Workers
	case opts.Source != "":
		if opts.Initial != "" || len(opts.Each) > 0 {
			steps, err := syntax.SplitSteps(opts.Source)
			if err != nil {
				return nil, err
			}
			job.Steps = steps
		} else {
			initial, steps, err := syntax.Split(opts.Source)
			if err != nil {
				return nil, err
			}
			v, err := value(initial)
			if err != nil {
				return nil, err
			}
			job.Steps = steps
			job.Initials = []any{v}
		}
	default:
		return nil, usagef("no chain given")
	}

	if err := job.override(opts); err != nil {
		return nil, err
	}
	if len(job.Initials) == 0 {
		return nil, usagef("no initial value given")
	}
	return job, nil
}

func (job *Job) override(opts RunOptions) error {
	if opts.Initial != "" && len(opts.Each) > 0 {
		return usagef("--initial and --each cannot be used together")
	}
	if opts.Initial != "" {
		v, err := value(opts.Initial)
		if err != nil {
			return err
		}
		job.Initials, job.Batch = []any{v}, false
	}
	if len(opts.Each) > 0 {
		job.Initials = make([]any, 0, len(opts.Each))
		for _, src := range opts.Each {
			v, err := value(src)
			if err != nil {
				return err
			}
			job.Initials = append(job.Initials, v)
		}
		job.Batch = true
	}
	if opts.Mode != "" {
		m, err := chain.ParseMode(opts.Mode)
		if err != nil {
			return &UsageError{Err: err}
		}
		job.Mode = m
	}
	if opts.Timeout > 0 {
		job.Timeout = opts.Timeout
	}
	if opts.Workers > 0 {
		job.Workers = opts.Workers
	}
	return nil
}

func value(src string) (any, error) {
	v, err := lambda.Value(src)
	if err != nil {
		return nil, usagef("initial value %q: %w", src, err)
	}
	return v, nil
}

// splitLoose reads a chain for inspection. The leading segment is taken as
// the initial value only when it is not itself a step.
func splitLoose(src string) (initial string, steps []string, err error) {
	parts, err := syntax.SplitSteps(src)
	if err != nil {
		return "", nil, err
	}
	if len(parts) == 0 {
		return "", nil, usagef("empty chain")
	}
	if _, err := syntax.Classify(parts[0]); err != nil && len(parts) > 1 {
		return parts[0], parts[1:], nil
	}
	return "_", parts, nil
}

func describe(name string, steps int) string {
	if name == "" {
		return fmt.Sprintf("%d steps", steps)
	}
	return fmt.Sprintf("%s (%d steps)", name, steps)
}
