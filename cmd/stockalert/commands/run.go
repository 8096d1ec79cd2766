package commands

import (
	"context"
	"fmt"
	"log/slog"
	"stockalert/internal/monitor"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

func logReport(report monitor.Report) {
	for _, outcome := range report.Outcomes {
		attrs := []any{
			"key", outcome.Target.Key().String(),
			"case", outcome.Directive.Case.String(),
			"stage", outcome.Stage.String(),
			"persisted", outcome.Persisted,
			"notified", outcome.Notified,
		}
		if outcome.ResolutionFailure != nil {
			attrs = append(attrs, "resolution_failure", outcome.ResolutionFailure)
		}
		if outcome.Err != nil {
			slog.Error("check failed", append(attrs, "err", outcome.Err)...)
			continue
		}
		slog.Info("checked", attrs...)
	}
	slog.Info(
		"run finished",
		"targets", len(report.Outcomes),
		"failed", report.Failed(),
		"duration", report.Duration().String(),
	)
}

func runOnce(ctx context.Context, a app) monitor.Report {
	report := a.monitor.Run(ctx)
	logReport(report)
	return report
}

var runCmd = &cobra.Command{
	Use:   "run [--config <path/to/config.json5>]",
	Short: "Checks every configured product once.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		a, err := newApp(config)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer a.close()

		runOnce(cmd.Context(), a)
		return nil
	},
}
