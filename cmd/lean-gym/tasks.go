package main

import (
	"github.com/PatrickMassot/lean-gym/internal/cli"
	"github.com/spf13/cobra"
)

func newTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks found on LEAN_PATH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return cli.ListTasks(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}
