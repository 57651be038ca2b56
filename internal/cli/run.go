package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoblet/indi-driver-fetcher/internal/config"
	"github.com/thenoblet/indi-driver-fetcher/internal/drivers"
	cliErrors "github.com/thenoblet/indi-driver-fetcher/internal/errors"
	"github.com/thenoblet/indi-driver-fetcher/internal/fetch"
	"github.com/thenoblet/indi-driver-fetcher/internal/ignore"
	"github.com/thenoblet/indi-driver-fetcher/internal/progress"
	"github.com/thenoblet/indi-driver-fetcher/internal/report"
)

// loadRunConfig loads configuration and applies flag overrides.
// Priority: flag > env > project config > user config > default.
func loadRunConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, cliErrors.WrapWithMessage(err, cliErrors.Configuration, "loading configuration",
			"Check the config file syntax and value ranges",
			"Run 'indi-fetch --help' for the expected keys")
	}

	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = flagMaxRetries
	}
	if cmd.Flags().Changed("retry-limit") {
		cfg.RetryLimit = flagRetryLimit
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = flagConcurrency
	}

	// Flag values bypass the file loader, so re-check the ranges.
	if err := config.ValidateConfigValues(cfg, "flags"); err != nil {
		return nil, cliErrors.WrapWithMessage(err, cliErrors.Configuration, "validating flags")
	}
	return cfg, nil
}

// ignorePath resolves the effective ignore-list path: the positional
// argument wins over the configured default. Empty means built-in defaults.
func ignorePath(cfg *config.Configuration, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return cfg.IgnoreFile
}

// runEnumeration drives one host run: spinner on stderr while the
// enumerator works, report lines on stdout afterwards.
func runEnumeration(ctx context.Context, e drivers.Enumerator, ignored ignore.Set, host string) error {
	indicator := progress.NewIndicator(!flagDebug)
	indicator.Start(fmt.Sprintf("Enumerating %s drivers", host))

	records, err := e.Enumerate(ctx, ignored)
	if err != nil {
		indicator.Fail(fmt.Sprintf("%s enumeration failed", host))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, fetch.ErrRetriesExhausted) {
			return cliErrors.Wrap(err, cliErrors.RateLimit,
				"Wait for the host's rate-limit window to pass and rerun",
				"Raise retry_limit / max_retries in the config")
		}
		return cliErrors.WrapWithMessage(err, cliErrors.Runtime, fmt.Sprintf("enumerating %s drivers", host))
	}

	indicator.Succeed(fmt.Sprintf("Resolved %d drivers", len(records)))
	return report.Write(os.Stdout, records)
}
