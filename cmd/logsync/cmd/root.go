// Package cmd implements the logsync CLI commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	apiURL   string
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("logsync version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "logsync",
	Short: "logsync uploads buffered log records to the logging backend",
	Long: "logsync is a background log-upload worker. It forwards locally buffered\n" +
		"events, exceptions and performance metrics to the remote logging backend\n" +
		"and removes each record from local storage once delivery succeeded.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "/etc/logsync/config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "logging backend URL (overrides config)")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("logsync version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command. Cancelling ctx asks long-running commands
// to shut down.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
