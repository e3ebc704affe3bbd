package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plexsphere/logsync/internal/worker"
)

var runCategory string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one upload for a category",
	Long: "Run a single upload for the given category and wait for it to finish.\n" +
		"Categories: " + strings.Join(worker.Categories, ", ") + ".\n" +
		"Exits non-zero unless every pending record was delivered.",
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runCategory, "category", "", "category selector")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("logsync run: %w", err)
	}

	// An unknown selector must not open, create or migrate any store.
	if !slices.Contains(worker.Categories, runCategory) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", runCategory, worker.Failure)
		return fmt.Errorf("logsync run: unknown category %q (must be one of %s)",
			runCategory, strings.Join(worker.Categories, ", "))
	}

	logger := setupLogger(cfg.LogLevel)
	ctx := cmd.Context()

	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("logsync run: %w", err)
	}
	defer rt.Close()

	// Cancellation reaches the upload through ctx; the stores stay open
	// until the run has resolved.
	f := rt.worker.Start(ctx, worker.NewInvocation(runCategory))
	<-f.Done()
	res, _ := f.Result()

	if runCategory == worker.CategoryEvent {
		rt.publishStatus(context.WithoutCancel(ctx))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", runCategory, res.Outcome)
	switch res.Outcome {
	case worker.Success:
		return nil
	case worker.Fault:
		return fmt.Errorf("logsync run: %s: %w", runCategory, res.Cause)
	default:
		return fmt.Errorf("logsync run: %s: upload %s", runCategory, res.Outcome)
	}
}
