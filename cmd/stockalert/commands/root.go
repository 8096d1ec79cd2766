package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"stockalert/lib/telemetry"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	exporters  telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "stockalert",
	Short: "stockalert watches product pages and notifies when something comes back in stock.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initSlog(verbose)

		var err error
		exporters, err = telemetry.SetupFromEnv(cmd.Context(), "stockalert")
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		if exporters.Enabled() {
			telemetry.InstrumentPerfStats(cmd.Context(), time.Second*30)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The configuration file, <name>.local.<ext> is merged over it.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

func flushTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err := exporters.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

// ExecuteContext runs the command line, telemetry is flushed whether the
// command failed or not.
func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	flushTelemetry()
	if err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}
