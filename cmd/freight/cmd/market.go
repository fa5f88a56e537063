package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"freight-rate/core/market"
	"freight-rate/core/types"
	"freight-rate/internal/config"
)

var (
	marketWeight    float64
	marketLimit     int
	marketManifests string
)

// marketCmd estimates a market rate from historical manifests
var marketCmd = &cobra.Command{
	Use:   "market <origin> <destination>",
	Short: "Estimate a market rate from historical manifests",
	Long: `Estimate a market rate from comparable historical manifests.

Origin and destination are city names; accents, case and a trailing
", Department" are ignored. When the exact route has fewer than 3 comparable
manifests the department corridor is used, then the national weight band.

Examples:
  freight market Bogota Medellin --weight 12000
  freight market "Bogotá, Cundinamarca" "Medellín, Antioquia" --weight 12000 --limit 5`,
	Args: cobra.ExactArgs(2),
	RunE: runMarket,
}

func init() {
	marketCmd.Flags().Float64Var(&marketWeight, "weight", 0, "cargo weight in kg")
	marketCmd.Flags().IntVar(&marketLimit, "limit", -1, "samples to print (0 prints all; default from config)")
	marketCmd.Flags().StringVar(&marketManifests, "manifests", "", "manifest CSV loaded into the memory driver")
	_ = marketCmd.MarkFlagRequired("weight")
}

func runMarket(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Get()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	if marketManifests != "" {
		if err := loadManifestFile(ctx, b, marketManifests); err != nil {
			return err
		}
	}

	ref, err := market.NewEngine(b.dataset).Reference(ctx, args[0], args[1], marketWeight)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if ref == nil {
		if outputJSON {
			return writeJSON(out, nil)
		}
		fmt.Fprintln(out, "No comparable historical manifests.")
		return nil
	}

	limit := cfg.Market.SampleLimit
	if marketLimit >= 0 {
		limit = marketLimit
	}
	if outputJSON {
		ref.Samples = market.Limit(ref, limit)
		return writeJSON(out, ref)
	}
	printMarket(out, ref, limit)
	return nil
}

func printMarket(w io.Writer, r *types.MarketReferenceResult, limit int) {
	t := newTable(w, fmt.Sprintf("MARKET REFERENCE %s → %s", r.Origin, r.Destination))
	t.row("Match", fmt.Sprintf("%s (tier %d)", r.Tier, int(r.Tier)))
	if r.Tier == types.TierDepartment {
		t.row("Corridor", r.OriginDepartment+" → "+r.DestinationDepartment)
	}
	t.row("Confidence", string(r.Confidence))
	t.row("Sample size", fmt.Sprintf("%d", r.SampleSize))
	t.sep()
	t.row("Point estimate for "+kg(r.WeightKg), money(r.PointEstimate))
	t.row("Median", money(r.Median))
	t.row("Mean", money(r.Mean))
	t.row("P25 / P75", money(r.P25)+" / "+money(r.P75))
	t.row("Min / Max", money(r.Min)+" / "+money(r.Max))
	t.row("Cost per kg", "$"+r.CostPerKg.StringFixed(2))
	t.row("Mean sample weight", kg(r.MeanWeightKg))
	t.flush()

	samples := market.Limit(r, limit)
	if len(samples) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%-12s %-10s %-18s %-18s %10s %18s\n", "ID", "DATE", "ORIGIN", "DESTINATION", "WEIGHT", "FREIGHT")
	for _, m := range samples {
		fmt.Fprintf(w, "%-12s %-10s %-18s %-18s %10s %18s\n",
			truncate(m.ID, 12), m.IssuedAt.Format("2006-01-02"),
			truncate(m.OriginCity, 18), truncate(m.DestinationCity, 18),
			kg(m.WeightKg), money(m.AgreedFreight))
	}
	if len(samples) < len(r.Samples) {
		fmt.Fprintf(w, "... %d more\n", len(r.Samples)-len(samples))
	}
}
