package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information - these can be set during build with ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Display version information",
		Aliases: []string{"v"},
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Commit:     %s\n", GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
		},
	}
}
