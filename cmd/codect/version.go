package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information, overridable at build time via -ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var versionColor = color.New(color.FgGreen, color.Bold)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// config and logging are not needed here
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "codect %s\n", versionColor.Sprint(Version))
			if GitCommit != "" {
				fmt.Fprintf(out, "commit: %s\n", GitCommit)
			}
			if BuildDate != "" {
				fmt.Fprintf(out, "built:  %s\n", BuildDate)
			}
		},
	}
}
