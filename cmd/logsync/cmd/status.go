package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plexsphere/logsync/internal/syncstatus"
	"github.com/plexsphere/logsync/internal/worker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending records and sync status",
	Long:  "Show the number of pending records per category and the last known sync status.",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("logsync status: %w", err)
	}
	ctx := cmd.Context()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("logsync status: open stores: %w", err)
	}
	defer st.close()

	counts := []struct {
		category string
		count    func() (int, error)
	}{
		{worker.CategoryEvent, func() (int, error) { return st.events.Count(ctx) }},
		{worker.CategoryException, func() (int, error) { return st.exceptions.Count(ctx) }},
		{worker.CategoryPerformanceMetric, func() (int, error) { return st.metrics.Count(ctx) }},
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Pending:")
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return fmt.Errorf("logsync status: count %s: %w", c.category, err)
		}
		fmt.Fprintf(w, "  %-28s %d\n", c.category, n)
	}

	tracker, err := syncstatus.Load(cfg.DataDir, cfg.Status, setupLogger(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("logsync status: %w", err)
	}
	s := tracker.Status()
	fmt.Fprintf(w, "\nSync state:         %s\n", s.State)
	fmt.Fprintf(w, "Last synced:        %s\n", formatTime(s.LastSyncedAt))
	fmt.Fprintf(w, "Last error:         %s\n", formatTime(s.LastErrorAt))
	fmt.Fprintf(w, "Consecutive errors: %d\n", s.ConsecutiveErrors)
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}
