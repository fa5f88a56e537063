package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"freight-rate/adapters/catalog"
	"freight-rate/adapters/manifests"
	"freight-rate/internal/config"
	ferrors "freight-rate/internal/errors"
)

// seedCmd loads an HCL parameter catalog into the configured store
var seedCmd = &cobra.Command{
	Use:   "seed [catalog.hcl]",
	Short: "Load a parameter catalog into the store",
	Long: `Load economic periods, vehicle parameters, commercial policies, terrain
profiles, distances and coordinates from an HCL catalog.

Entries replace existing rows with the same key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Get()

		path := cfg.Catalog.Path
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return ferrors.New(ferrors.TypeConfig, "no catalog given; pass a path or set catalog.path")
		}
		c, err := catalog.Load(path)
		if err != nil {
			return err
		}

		b, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()
		if err := c.Apply(ctx, b.catalog); err != nil {
			return ferrors.Storage("apply catalog", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"Loaded %d economic periods, %d vehicle records, %d policies, %d terrain profiles, %d distances, %d locations\n",
			len(c.Economic), len(c.Vehicles), len(c.Policies), len(c.Terrain), len(c.Distances), len(c.Locations))
		return nil
	},
}

var importBatch int

// importManifestsCmd imports historical manifests from CSV
var importManifestsCmd = &cobra.Command{
	Use:   "import-manifests <file.csv>",
	Short: "Import historical manifests from a CSV export",
	Long: `Import historical manifests. The header must contain id, origin_city,
destination_city, weight_kg, agreed_freight and issued_at; origin_department,
destination_department, net_freight and plate are optional.

City and department names are normalized on import.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := openBackend(ctx, config.Get())
		if err != nil {
			return err
		}
		defer b.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		report, err := manifests.NewImporter(b.manifests).WithBatchSize(importBatch).Import(ctx, f)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d manifests, skipped %d\n", report.Imported, report.Skipped)
		for _, e := range report.Errors {
			fmt.Fprintf(out, "  %v\n", e)
		}
		return nil
	},
}

func init() {
	importManifestsCmd.Flags().IntVar(&importBatch, "batch", manifests.DefaultBatchSize, "rows per write")
}
