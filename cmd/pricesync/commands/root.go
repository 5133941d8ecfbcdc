// Package commands holds the pricesync CLI.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "pricesync",
	Short:         "pricesync keeps LiteLLM's Fireworks AI pricing entries in sync with the Fireworks catalogue.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the CLI and exits non-zero on error.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
