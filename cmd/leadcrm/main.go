// Command leadcrm runs the enquiry and booking service and its operator tasks.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"leadcrm/internal/app"
	"leadcrm/internal/platform/config"
	"leadcrm/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "leadcrm",
		Short:         "Property enquiry capture, lead management and bookings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newMigrateFormNumbersCmd(),
		newCreateStaffCmd(),
		newSeedProjectsCmd(),
	)
	return root
}

// buildApp loads configuration and wires the service graph. Operator
// commands log to stderr so their reports stay clean on stdout.
func buildApp(ctx context.Context, logOut io.Writer, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(logOut, cfg.Log)
	slog.SetDefault(log)
	return app.New(ctx, cfg, log, reg, gatherer)
}
