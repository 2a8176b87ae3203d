package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "threadscraper",
	Short: "Collect a Threads user's public posts and reply threads",
	Long: `threadscraper drives a headless browser to a Threads profile, extracts the
JSON state embedded in the rendered page, and normalizes the user's posts and
their reply threads into JSON documents.

Outputs per run:
  - {username}_raw_data.json   every located payload tree from the profile page
  - {username}_result.json     the full normalized result with reply threads
  - a reduced summary document printed to stdout`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	os.Args = withDefaultCommand(os.Args)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withDefaultCommand inserts the scrape command when the first argument is
// neither a known subcommand nor a flag, so `threadscraper <username>` runs
// through the scrape command's own flag set and argument validation.
func withDefaultCommand(args []string) []string {
	if len(args) < 2 {
		return args
	}
	first := args[1]
	if strings.HasPrefix(first, "-") || isKnownCommand(first) {
		return args
	}
	return append([]string{args[0], "scrape"}, args[1:]...)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .threadscraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`threadscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func isKnownCommand(arg string) bool {
	// The help command is only registered by cobra during Execute.
	if arg == "help" {
		return true
	}
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}
