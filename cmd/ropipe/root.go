package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/ib-77/ropipe/internal/cli"
)

// commands are added to every root command; each command file registers
// its constructor in init.
var commands []func() *cobra.Command

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ropipe",
		Short: "ropipe composes and runs step chains",
		Long: `ropipe builds a chain of steps from text such as

  5 => inc => strconv::atoi? => time::after.await?

and threads the initial value through it, stopping at the first failed step.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("mode", "", "restrict modifiers: mixed, plain, try or await_try")

	for _, newCmd := range commands {
		root.AddCommand(newCmd())
	}
	return root
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	// Errors raised before a command runs come from cobra's own flag and
	// argument handling.
	started := false
	root.PersistentPreRun = func(*cobra.Command, []string) {
		started = true
	}

	err := root.ExecuteContext(ctx)
	if err != nil && !started {
		err = &cli.UsageError{Err: err}
	}
	cli.Report(stderr, err)
	return cli.ExitCode(err)
}
