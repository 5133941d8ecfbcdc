package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/pricesync/internal/config"
	"github.com/davidbz/pricesync/internal/domain"
)

var (
	runDryRun *bool
	runOutput *string
)

func init() {
	runDryRun = runCmd.Flags().Bool("dry-run", false, "Write the patched document instead of opening a pull request.")
	runOutput = runCmd.Flags().StringP("output", "o", "-", "Where --dry-run writes the patched document (- for stdout).")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--dry-run] [--output <path>]",
	Short: "Run the sync once and print the result as JSON.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := containerOptions{dryRun: *runDryRun}
		resultOut := cmd.OutOrStdout()

		if opts.dryRun {
			out, closeOut, err := openOutput(*runOutput)
			if err != nil {
				return err
			}
			defer closeOut()

			opts.dryRunOut = out
			if out == os.Stdout {
				// Keep stdout a single JSON document.
				resultOut = cmd.ErrOrStderr()
			}
		}

		container, err := buildContainer(opts)
		if err != nil {
			return err
		}

		err = container.Invoke(func(cfg *config.Config, logger *zap.Logger, orch *domain.Orchestrator) error {
			defer func() { _ = logger.Sync() }()

			if validateErr := cfg.Validate(!opts.dryRun); validateErr != nil {
				return validateErr
			}

			result, runErr := orch.RunOnce(cmd.Context())
			if result != nil {
				if printErr := printResult(resultOut, result); printErr != nil {
					return printErr
				}
			}

			return runErr
		})
		if err != nil {
			return dig.RootCause(err)
		}

		return nil
	},
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return f, func() { _ = f.Close() }, nil
}

func printResult(w io.Writer, result *domain.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}
	return nil
}
