package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version and BuildDate can be overridden at build time via -ldflags.
var (
	Version   = "0.1.0-dev"
	BuildDate = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the meshbox version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := color.New(color.FgCyan, color.Bold).Sprint("meshbox")
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, Version)
			if BuildDate != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", BuildDate)
			}
			return nil
		},
	}
}
