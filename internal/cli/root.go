// Package cli implements the inventory command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd builds the inventory command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "inventory",
		Short:         "Product inventory API and client",
		Long:          "inventory serves the products REST API and manages products against a running server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newPingDBCmd(),
		newProductsCmd(),
	)

	return root
}
