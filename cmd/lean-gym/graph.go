package main

import (
	"github.com/PatrickMassot/lean-gym/internal/cli"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <task>",
		Short: "Print the rule graph of a task as a Mermaid flowchart",
		Args:  cli.ExactTask,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return cli.Graph(cfg, args[0], cmd.OutOrStdout())
		},
	}
}
