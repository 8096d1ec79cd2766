package commands

import (
	"fmt"
	"log/slog"
	"stockalert/internal/components/chrono"

	"github.com/spf13/cobra"
)

var serveNow bool

func init() {
	serveCmd.Flags().BoolVar(&serveNow, "now", false, "Run a check immediately instead of waiting for the first tick.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--now]",
	Short: "Checks every configured product on the configured cron schedule until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		config, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		a, err := newApp(config)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer a.close()

		cron := chrono.NewStandardCron(a.tel, a.clock)
		err = cron.Cron(config.Schedule, func() {
			runOnce(ctx, a)
		})
		if err != nil {
			return fmt.Errorf("invalid schedule %q: %w", config.Schedule, err)
		}

		if serveNow {
			runOnce(ctx, a)
		}

		slog.Info("waiting for schedule", "schedule", config.Schedule, "targets", len(config.Targets))
		cron.Run(ctx)
		slog.Info("stopped")
		return nil
	},
}
