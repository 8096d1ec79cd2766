package commands

import (
	"errors"
	"fmt"
	"os"
	"stockalert/internal/components/telemetry"
	"stockalert/internal/product"
	"stockalert/internal/resolver"
	"stockalert/lib/restyutil"

	"github.com/spf13/cobra"
)

var (
	checkTitle string
	checkID    string
	checkDump  string
)

func init() {
	checkCmd.Flags().StringVar(&checkTitle, "title", "", "The product title, defaults to the page title.")
	checkCmd.Flags().StringVar(&checkID, "id", "check", "The product id to put on the snapshot.")
	checkCmd.Flags().StringVar(&checkDump, "dump", "", "A directory to write the raw http exchanges to.")
	rootCmd.AddCommand(checkCmd)
}

// checkResolverOptions uses the store options from the config when there is
// one, check does not need a config to work.
func checkResolverOptions() (map[product.StoreID]resolver.ClientOptions, error) {
	config, err := LoadConfig(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return map[product.StoreID]resolver.ClientOptions{}, nil
	}
	if err != nil {
		return nil, err
	}
	return config.ResolverOptions()
}

var checkCmd = &cobra.Command{
	Use:   "check <STORE> <url> [--title <title>] [--dump <dir>]",
	Short: "Resolves a single product page and prints the snapshot without persisting or notifying.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := product.ParseStoreID(args[0])
		if err != nil {
			return err
		}

		opts, err := checkResolverOptions()
		if err != nil {
			return err
		}
		if checkDump != "" {
			output, err := restyutil.NewFilesystemOutput(checkDump)
			if err != nil {
				return fmt.Errorf("create dump directory: %w", err)
			}
			storeOpts := opts[store]
			storeOpts.Dump = output
			opts[store] = storeOpts
		}

		registry, err := resolver.NewRegistry(opts, telemetry.SlogAPI{})
		if err != nil {
			return fmt.Errorf("initialize resolvers: %w", err)
		}
		res, _ := registry.For(store)

		result := res.Resolve(cmd.Context(), product.Target{
			ProductID: checkID,
			Store:     store,
			URL:       args[1],
			Title:     checkTitle,
		})

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Snapshot.String())
		renderSnapshots(out, []product.Snapshot{result.Snapshot})
		return result.Failure
	},
}
