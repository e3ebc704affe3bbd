package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/logsync/internal/scheduler"
	"github.com/plexsphere/logsync/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Upload periodically until stopped",
	Long: "Run the upload worker for every category on the configured schedule\n" +
		"until SIGINT or SIGTERM. Failed runs are retried on the next interval.",
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("logsync serve: %w", err)
	}
	logger := setupLogger(cfg.LogLevel)

	ctx := cmd.Context()

	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("logsync serve: %w", err)
	}
	defer rt.Close()

	logger.Info("starting logsync",
		"version", buildVersion,
		"installation_id", cfg.InstallationID,
		"store", cfg.Store.Driver,
	)

	host := scheduler.NewHost(cfg.Schedule, rt.worker, logger)
	host.SetOnResult(func(category string, _ worker.Result) {
		if category == worker.CategoryEvent && ctx.Err() == nil {
			rt.publishStatus(ctx)
		}
	})

	if err := host.Run(ctx); err != nil {
		return fmt.Errorf("logsync serve: %w", err)
	}
	logger.Info("logsync stopped", "reason", ctx.Err())
	return nil
}
