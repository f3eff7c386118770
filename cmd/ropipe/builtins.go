package main

import (
	"github.com/spf13/cobra"

	"github.com/ib-77/ropipe/internal/cli"
)

func newBuiltinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the steps available to chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Builtins(cmd.OutOrStdout(), nil)
		},
	}
}

func init() {
	commands = append(commands, newBuiltinsCmd)
}
