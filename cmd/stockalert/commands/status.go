package commands

import (
	"fmt"
	"io"
	"stockalert/internal/components/chrono"
	"stockalert/internal/components/telemetry"
	"stockalert/internal/product"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

func renderSnapshots(out io.Writer, snapshots []product.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Product", "Store", "Title", "Price", "In stock", "URL"})
	for _, s := range snapshots {
		inStock := "no"
		if s.InStock() {
			inStock = "yes"
		}
		t.AppendRow(table.Row{
			s.ProductID(),
			s.Store().DisplayName(),
			s.Title(),
			s.FormatPrice(),
			inStock,
			s.URL(),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the last observed state of every tracked product.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		clock, err := chrono.NewStandardImpl(config.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}

		database, store, err := openStore(config, clock, telemetry.SlogAPI{})
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		snapshots, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		renderSnapshots(cmd.OutOrStdout(), snapshots)
		return nil
	},
}
