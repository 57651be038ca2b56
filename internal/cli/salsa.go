package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	cliErrors "github.com/thenoblet/indi-driver-fetcher/internal/errors"
	"github.com/thenoblet/indi-driver-fetcher/internal/fetch"
	"github.com/thenoblet/indi-driver-fetcher/internal/ignore"
	"github.com/thenoblet/indi-driver-fetcher/internal/salsa"
)

var salsaCmd = &cobra.Command{
	Use:   "salsa [ignore-file]",
	Short: "Enumerate packaging projects from the Debian Astro team on salsa",
	Long: `Enumerate the debian-astro-team group's INDI-related projects on
salsa.debian.org, read each project's Debian changelog across its packaging
branches, and print one report line per project.

The optional ignore-file argument lists name fragments to skip; any project
whose name contains one of them is excluded. Without it the built-in
defaults apply. Unlike the github command, a named ignore file that cannot
be read aborts the run.`,
	Example: `  # Enumerate with the built-in ignore defaults
  indi-fetch salsa

  # Enumerate with a custom ignore list and bounded fan-out
  indi-fetch salsa ./ignored.txt --concurrency 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.GitLabToken == "" {
			return cliErrors.NewConfigError("no GitLab token configured",
				"Set the GITLAB_TOKEN environment variable",
				"Or set gitlab_token in .indi-fetch/config.yml")
		}

		ignored, err := salsaIgnoreSet(ignorePath(cfg, args))
		if err != nil {
			return err
		}

		policy := &fetch.ExponentialBackoff{
			Base:       time.Duration(cfg.BackoffBase) * time.Second,
			MaxRetries: cfg.MaxRetries,
		}
		client := fetch.NewClient(time.Duration(cfg.Timeout)*time.Second,
			fetch.HeaderToken("PRIVATE-TOKEN", cfg.GitLabToken), policy, slog.Default())
		enum := salsa.NewEnumerator(client, slog.Default(),
			salsa.WithPageSize(cfg.PageSize), salsa.WithConcurrency(cfg.Concurrency))

		return runEnumeration(cmd.Context(), enum, ignored, "salsa")
	},
}

func init() {
	rootCmd.AddCommand(salsaCmd)
}

// salsaIgnoreSet loads the ignore list. A named file that cannot be read is
// a configuration error; no path means the built-in defaults.
func salsaIgnoreSet(path string) (ignore.Set, error) {
	if path == "" {
		return ignore.DefaultSalsa(), nil
	}
	set, err := ignore.Load(path)
	if err != nil {
		return nil, cliErrors.WrapWithMessage(err, cliErrors.Configuration, "reading ignore file",
			"Check that the path exists and is readable",
			"Omit the argument to use the built-in defaults")
	}
	return set, nil
}
