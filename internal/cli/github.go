package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	cliErrors "github.com/thenoblet/indi-driver-fetcher/internal/errors"
	"github.com/thenoblet/indi-driver-fetcher/internal/fetch"
	"github.com/thenoblet/indi-driver-fetcher/internal/github"
	"github.com/thenoblet/indi-driver-fetcher/internal/ignore"
)

var githubCmd = &cobra.Command{
	Use:   "github [ignore-file]",
	Short: "Enumerate drivers from the indilib/indi-3rdparty GitHub repository",
	Long: `Enumerate the top-level driver directories of indilib/indi-3rdparty,
read each driver's debian changelog on the master branch, and print one
report line per driver.

The optional ignore-file argument lists directory names to skip, separated
by commas or whitespace; '#' starts a comment. Without it the built-in
defaults apply. An unreadable ignore file logs a warning and falls back to
the defaults.`,
	Example: `  # Enumerate with the built-in ignore defaults
  indi-fetch github

  # Enumerate with a custom ignore list
  indi-fetch github ./ignored.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.GitHubToken == "" {
			return cliErrors.NewConfigError("no GitHub token configured",
				"Set the GITHUB_TOKEN environment variable",
				"Or set github_token in .indi-fetch/config.yml")
		}

		ignored := githubIgnoreSet(ignorePath(cfg, args))

		policy := &fetch.WaitForReset{MaxAttempts: cfg.RetryLimit}
		client := fetch.NewClient(time.Duration(cfg.Timeout)*time.Second,
			fetch.BasicAuth(cfg.GitHubToken), policy, slog.Default())
		enum := github.NewEnumerator(client, github.DefaultBaseURL, slog.Default())

		return runEnumeration(cmd.Context(), enum, ignored, "GitHub")
	},
}

func init() {
	rootCmd.AddCommand(githubCmd)
}

// githubIgnoreSet loads the ignore list, degrading to the built-in defaults
// when no path is given or the file cannot be read. An empty readable file
// is honored as an empty set.
func githubIgnoreSet(path string) ignore.Set {
	if path == "" {
		return ignore.DefaultGitHub()
	}
	set, err := ignore.Load(path)
	if err != nil {
		slog.Warn("could not read ignore file, using defaults", "path", path, "error", err)
		return ignore.DefaultGitHub()
	}
	return set
}
