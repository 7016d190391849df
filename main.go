// Command meshbox computes per-element axis-aligned bounding boxes for a
// finite-element mesh described in a small Lisp DSL and exports them for
// coarse parallel search.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "meshbox",
		Short:         "Per-element bounding boxes for coarse search",
		Long:          `meshbox evaluates a mesh source, splits it across ranks and exports one bounding box per element.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// main executes the root command and exits with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
