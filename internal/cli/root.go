// Package cli wires the indi-fetch command tree: the two host commands
// (github, salsa), the version command, and the shared persistent flags.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cliErrors "github.com/thenoblet/indi-driver-fetcher/internal/errors"
)

var (
	flagConfig      string
	flagDebug       bool
	flagTimeout     int
	flagMaxRetries  int
	flagRetryLimit  int
	flagConcurrency int
)

var rootCmd = &cobra.Command{
	Use:   "indi-fetch",
	Short: "Report Debian packaging versions for INDI third-party drivers",
	Long: `indi-fetch enumerates INDI third-party driver projects on GitHub
(indilib/indi-3rdparty) or on the Debian Astro team's salsa.debian.org group,
locates each project's Debian changelog, and prints one line per driver with
its packaging version and latest git information.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(flagDebug)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a project config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "Per-request timeout in seconds")
	rootCmd.PersistentFlags().IntVar(&flagMaxRetries, "max-retries", 0, "Max backoff attempts per salsa request")
	rootCmd.PersistentFlags().IntVar(&flagRetryLimit, "retry-limit", 0, "Max GitHub rate-limit waits (0 = unbounded)")
	rootCmd.PersistentFlags().IntVar(&flagConcurrency, "concurrency", 0, "Salsa per-page fan-out bound (0 = page size)")
}

// configureLogging installs the process-wide text logger on stderr. Stdout
// stays reserved for report lines.
func configureLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Execute runs the CLI and returns the process exit code. SIGINT/SIGTERM
// cancel the run context; an interrupted run closes cleanly with exit 0.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down.")
		return ExitSuccess
	}

	if cliErr := cliErrors.AsCLIError(err); cliErr != nil {
		cliErrors.PrintError(cliErr)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return ExitFailure
}
