package main

import (
	"fmt"
	"strings"

	leangym "github.com/PatrickMassot/lean-gym"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of lean-gym",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "lean-gym version %s\n", strings.TrimSpace(leangym.Version))
			return err
		},
	}
}
