package main

import (
	"github.com/spf13/cobra"

	"github.com/ib-77/ropipe/internal/cli"
)

func newRunCmd() *cobra.Command {
	opts := cli.RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [chain]",
		Short: "Run a chain and print its result",
		Long: `Runs a chain such as '5 => inc => strconv::itoa'.

With --initial or --each the chain holds only steps. With --file the chain
comes from a YAML chain file and flags override its settings.`,
		Example: `  ropipe run '5 => inc => double'
  ropipe run --each 1,2,3 'inc => positive?'
  ropipe run -f shout.yaml --debug`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Source = args[0]
			}
			opts.Mode, _ = cmd.Flags().GetString("mode")
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return cli.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "YAML chain file")
	cmd.Flags().StringVar(&opts.Initial, "initial", "", "initial value expression")
	cmd.Flags().StringSliceVar(&opts.Each, "each", nil, "run once per initial value expression")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent runs for --each (default GOMAXPROCS)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "cancel the run after this long")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "log every step to stderr")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print evaluator metrics to stderr")

	return cmd
}

func init() {
	commands = append(commands, newRunCmd)
}
