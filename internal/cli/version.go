package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thenoblet/indi-driver-fetcher/internal/build"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for indi-fetch",
	Example: `  # Show version info
  indi-fetch version

  # Plain output (for scripts)
  indi-fetch version --plain`,
	Run: func(cmd *cobra.Command, args []string) {
		if versionPlain {
			printPlainVersion()
			return
		}
		printPrettyVersion()
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}

// printPlainVersion prints a simple version output for scripting.
func printPlainVersion() {
	fmt.Printf("indi-fetch %s\n", build.Version)
	fmt.Printf("commit: %s\n", build.Commit)
	fmt.Printf("built: %s\n", build.BuildDate)
	fmt.Printf("go: %s\n", runtime.Version())
	fmt.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints a styled version output.
func printPrettyVersion() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Printf("%s %s\n", cyan("indi-fetch"), white(build.Version))
	fmt.Printf("  %s %s\n", yellow("Commit:"), truncateCommit(build.Commit))
	fmt.Printf("  %s %s\n", yellow("Built:"), build.BuildDate)
	fmt.Printf("  %s %s\n", yellow("Go:"), runtime.Version())
	fmt.Printf("  %s %s/%s\n", yellow("Platform:"), runtime.GOOS, runtime.GOARCH)
}

// truncateCommit shortens commit hash if it's too long.
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
