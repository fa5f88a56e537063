package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"freight-rate/core/distance"
	"freight-rate/core/engine"
	"freight-rate/core/market"
	"freight-rate/core/pricing"
	"freight-rate/core/types"
	"freight-rate/internal/config"
	ferrors "freight-rate/internal/errors"
)

var (
	quoteFrom      string
	quoteTo        string
	quoteKm        float64
	quoteWeight    float64
	quoteCargo     string
	quoteDate      string
	quoteClass     string
	quoteMargin    float64
	quoteRounding  int64
	quoteSave      bool
	quoteFromCity  string
	quoteToCity    string
	quoteManifests string
)

// quoteCmd computes a quotation
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute floor and suggested prices for a shipment",
	Long: `Compute the regulated floor price and the suggested commercial price.

Origin and destination are location codes. The road distance comes from the
distance table, or a great-circle estimate when --km is not given.

Examples:
  freight quote --from 11001 --to 05001 --weight 12000
  freight quote --from 11001 --to 05001 --weight 28000 --cargo CONTENEDOR --date 2026-10-01
  freight quote --from 11001 --to 05001 --weight 12000 --margin 0.18 --save
  freight quote --from 11001 --to 05001 --weight 12000 --from-city Bogota --to-city Medellin`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteFrom, "from", "", "origin location code")
	f.StringVar(&quoteTo, "to", "", "destination location code")
	f.Float64Var(&quoteKm, "km", 0, "road distance in km (resolved when omitted)")
	f.Float64Var(&quoteWeight, "weight", 0, "cargo weight in kg")
	f.StringVar(&quoteCargo, "cargo", string(types.CargoGeneral), "cargo type")
	f.StringVar(&quoteDate, "date", "", "target date YYYY-MM-DD (default today)")
	f.StringVar(&quoteClass, "class", "", "vehicle class override (C2, C3, C2S2, C3S2, C3S3)")
	f.Float64Var(&quoteMargin, "margin", -1, "margin override as a fraction (0.2 = 20%)")
	f.Int64Var(&quoteRounding, "rounding", 0, "rounding increment override")
	f.BoolVar(&quoteSave, "save", false, "log the quotation (sqlite and postgres drivers)")
	f.StringVar(&quoteFromCity, "from-city", "", "origin city name for a market comparison")
	f.StringVar(&quoteToCity, "to-city", "", "destination city name for a market comparison")
	f.StringVar(&quoteManifests, "manifests", "", "manifest CSV loaded into the memory driver")
	_ = quoteCmd.MarkFlagRequired("from")
	_ = quoteCmd.MarkFlagRequired("to")
	_ = quoteCmd.MarkFlagRequired("weight")
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Get()

	req, err := buildQuoteRequest(cmd)
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	if quoteManifests != "" {
		if err := loadManifestFile(ctx, b, quoteManifests); err != nil {
			return err
		}
	}

	var route *distance.Result
	if req.DistanceKm == 0 {
		route, err = distance.NewResolver(b.distances).Resolve(ctx, req.Origin, req.Destination)
		if err != nil {
			return err
		}
		req.DistanceKm = route.Km
	}

	svc := engine.NewService(b.repo, defaultsFrom(cfg))
	result, err := svc.Quote(ctx, req)
	if err != nil {
		return err
	}

	var ref *types.MarketReferenceResult
	if quoteFromCity != "" && quoteToCity != "" {
		ref, err = market.NewEngine(b.dataset).Reference(ctx, quoteFromCity, quoteToCity, req.WeightKg)
		if err != nil {
			return err
		}
	}

	var id string
	if quoteSave {
		if b.quotations == nil {
			return ferrors.New(ferrors.TypeConfig, "--save needs the sqlite or postgres driver")
		}
		saved, err := b.quotations.SaveQuotation(ctx, result)
		if err != nil {
			return ferrors.Storage("save quotation", err)
		}
		id = saved.ID
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		return writeJSON(out, struct {
			ID     string                       `json:"id,omitempty"`
			Quote  *types.QuotationResult       `json:"quotation"`
			Route  *distance.Result             `json:"route,omitempty"`
			Market *types.MarketReferenceResult `json:"market,omitempty"`
		}{id, result, route, ref})
	}
	printQuotation(out, result, route)
	if ref != nil {
		printMarket(out, ref, 0)
	} else if quoteFromCity != "" {
		fmt.Fprintln(out, "No comparable historical manifests.")
	}
	if id != "" {
		fmt.Fprintf(out, "Saved quotation %s\n", id)
	}
	return nil
}

func buildQuoteRequest(cmd *cobra.Command) (engine.QuotationRequest, error) {
	target := time.Now().UTC().Truncate(24 * time.Hour)
	if quoteDate != "" {
		t, err := time.Parse("2006-01-02", quoteDate)
		if err != nil {
			return engine.QuotationRequest{}, ferrors.Input("invalid --date, want YYYY-MM-DD")
		}
		target = t
	}

	req := engine.QuotationRequest{
		Origin:      quoteFrom,
		Destination: quoteTo,
		DistanceKm:  quoteKm,
		WeightKg:    quoteWeight,
		CargoType:   types.CargoType(quoteCargo),
		TargetDate:  target,
	}
	if quoteClass != "" {
		c := types.VehicleClass(quoteClass)
		req.VehicleClassOverride = &c
	}
	if cmd.Flags().Changed("margin") {
		m := decimal.NewFromFloat(quoteMargin)
		req.MarginOverride = &m
	}
	if cmd.Flags().Changed("rounding") {
		r := decimal.NewFromInt(quoteRounding)
		req.RoundingOverride = &r
	}
	if quoteKm < 0 {
		return req, ferrors.Input("distance must be positive")
	}
	return req, nil
}

func defaultsFrom(cfg *config.Config) pricing.Defaults {
	return pricing.Defaults{
		MarginPct:         decimal.NewFromFloat(cfg.Pricing.DefaultMarginPct),
		RoundingIncrement: decimal.NewFromInt(cfg.Pricing.DefaultRoundingIncrement),
		ValidityHours:     cfg.Pricing.DefaultValidityHours,
	}
}

func printQuotation(w io.Writer, r *types.QuotationResult, route *distance.Result) {
	t := newTable(w, fmt.Sprintf("QUOTATION %s → %s", r.Origin, r.Destination))

	class := r.VehicleClass.String()
	if r.VehicleClassOverridden {
		class += " (override)"
	}
	t.row("Vehicle class", class)
	t.row("Cargo", fmt.Sprintf("%s, %s", r.CargoType, kg(r.WeightKg)))
	dist := km(r.DistanceKm)
	if route != nil && route.Source == distance.SourceEstimated {
		dist += " (estimated)"
	}
	t.row("Distance", dist)
	if route != nil {
		t.row("Transit", route.Transit.Label)
	}
	t.row("Terrain flat/hilly/mountainous", fmt.Sprintf("%.0f/%.0f/%.0f%%",
		r.Terrain.Flat*100, r.Terrain.Hilly*100, r.Terrain.Mountainous*100))
	t.row("Average speed", fmt.Sprintf("%.1f km/h", r.AverageSpeedKmh))
	t.row("Trips per month", fmt.Sprintf("%d", r.TripsPerMonth))

	c := r.Costs
	t.sep()
	t.row("Fuel", money(c.Fuel))
	t.row("Tolls", money(c.Tolls))
	t.row("Tires", money(c.Tires))
	t.row("Lubricants", money(c.Lubricants))
	t.row("Filters", money(c.Filters))
	t.row("Wash and grease", money(c.WashGrease))
	t.row("Maintenance", money(c.Maintenance))
	t.row("Contingency", money(c.Contingency))
	t.row("Variable per trip", money(c.VariableTotal))
	t.sep()
	t.row("Capital", money(c.Capital))
	t.row("Labor", money(c.Labor))
	t.row("Insurance", money(c.Insurance))
	t.row("Vehicle tax", money(c.VehicleTax))
	t.row("Parking", money(c.Parking))
	t.row("Communications", money(c.Communications))
	t.row("Inspection", money(c.Inspection))
	t.row("Fixed per month", money(c.FixedMonthlyTotal))
	t.row("Fixed per trip", money(c.FixedPerTrip))
	t.sep()
	t.row("Technical base cost", money(r.TechnicalBaseCost))
	t.row("Floor price", money(r.FloorPrice))
	t.row(fmt.Sprintf("Suggested price (margin %s)", percent(r.MarginPct)), money(r.SuggestedPrice))
	t.row("Valid until", r.ValidUntil.Format("2006-01-02 15:04"))
	t.flush()

	p := r.Parameters
	if p.EconomicFallback {
		fmt.Fprintf(w, "Note: economic parameters for %s missing, used %s\n", p.RequestedPeriod, p.Economic.Period)
	}
	if p.VehicleFallback {
		fmt.Fprintf(w, "Note: %s parameters for %d missing, used model year %d\n",
			r.VehicleClass, p.RequestedYear, p.Vehicle.ModelYear)
	}
	if p.TerrainSource == types.ProvenanceDefault {
		fmt.Fprintln(w, "Note: no terrain profile for this route, used the distance default")
	}
}
