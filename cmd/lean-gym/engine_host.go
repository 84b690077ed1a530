package main

import (
	"github.com/PatrickMassot/lean-gym/internal/cli"
	"github.com/spf13/cobra"
)

func newEngineHostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engine-host",
		Short: "Serve the rewrite engine over the engine host protocol on stdin/stdout",
		Long: `engine-host answers newline-delimited JSON engine requests on stdin.
It is the command a process engine configuration points at to run the
built-in rewrite engine in a child process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return cli.ServeEngine(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
