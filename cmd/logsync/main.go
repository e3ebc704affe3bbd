// Package main is the entry point for the logsync binary.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/plexsphere/logsync/cmd/logsync/cmd"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	// Commands see the signal as a cancelled context and wait for in-flight
	// uploads before returning.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
