package main

import (
	"github.com/spf13/cobra"

	"github.com/ib-77/ropipe/internal/cli"
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <chain>",
		Short: "Show the nested call expression of a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Explain(inspectOptions(cmd, args))
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <chain>",
		Short: "Classify and bind a chain without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Check(inspectOptions(cmd, args))
		},
	}
}

func inspectOptions(cmd *cobra.Command, args []string) cli.InspectOptions {
	mode, _ := cmd.Flags().GetString("mode")
	return cli.InspectOptions{
		Source: args[0],
		Mode:   mode,
		Stdout: cmd.OutOrStdout(),
	}
}

func init() {
	commands = append(commands, newExplainCmd, newCheckCmd)
}
