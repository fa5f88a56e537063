// Package catalog loads parameter tables from HCL files into any store.
//
//	economic "2026-10" {
//	  fuel_price_per_gallon = 10850
//	  minimum_wage          = 1423500
//	  monthly_interest_rate = 0.0125
//	}
//
//	vehicle "C2" "2026" { ... }
//	policy "standard" { ... }
//	terrain "11001" "05001" { ... }
//	distance "11001" "05001" { km = 415 }
//	location "11001" { lat = 4.711  lng = -74.072 }
package catalog

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"freight-rate/core/determinism"
	"freight-rate/core/types"
	ferrors "freight-rate/internal/errors"
)

// Sink receives catalog entries. memory.Store and sqlite.DB implement it.
type Sink interface {
	PutEconomicParams(ctx context.Context, p types.EconomicPeriodParams) error
	PutVehicleParams(ctx context.Context, p types.VehicleClassParams) error
	PutCommercialPolicy(ctx context.Context, p types.CommercialPolicy) error
	PutTerrainProfile(ctx context.Context, p types.RouteTerrainProfile) error
	PutDistance(ctx context.Context, rec types.DistanceRecord) error
	PutCoordinates(ctx context.Context, code string, c types.Coordinates) error
}

// Catalog is a decoded parameter catalog
type Catalog struct {
	Economic  []types.EconomicPeriodParams
	Vehicles  []types.VehicleClassParams
	Policies  []types.CommercialPolicy
	Terrain   []types.RouteTerrainProfile
	Distances []types.DistanceRecord
	Locations map[string]types.Coordinates
}

type file struct {
	Economic  []economicBlock `hcl:"economic,block"`
	Vehicles  []vehicleBlock  `hcl:"vehicle,block"`
	Policies  []policyBlock   `hcl:"policy,block"`
	Terrain   []terrainBlock  `hcl:"terrain,block"`
	Distances []distanceBlock `hcl:"distance,block"`
	Locations []locationBlock `hcl:"location,block"`
}

type economicBlock struct {
	Period              string  `hcl:"period,label"`
	FuelPricePerGallon  float64 `hcl:"fuel_price_per_gallon"`
	MinimumWage         float64 `hcl:"minimum_wage"`
	MonthlyInterestRate float64 `hcl:"monthly_interest_rate"`
}

type tireBlock struct {
	UnitPrice float64 `hcl:"unit_price"`
	Quantity  int     `hcl:"quantity"`
	LifeKm    float64 `hcl:"life_km"`
}

type vehicleBlock struct {
	Class                        string    `hcl:"class,label"`
	Year                         string    `hcl:"year,label"`
	VehicleValue                 float64   `hcl:"vehicle_value"`
	AmortizationMonths           int       `hcl:"amortization_months"`
	TractionTires                tireBlock `hcl:"traction_tires,block"`
	SteeringTires                tireBlock `hcl:"steering_tires,block"`
	LubricantsPerKm              float64   `hcl:"lubricants_per_km"`
	FiltersPerKm                 float64   `hcl:"filters_per_km"`
	WashGreasePerKm              float64   `hcl:"wash_grease_per_km"`
	MaintenancePerKm             float64   `hcl:"maintenance_per_km"`
	AnnualLiabilityInsurance     float64   `hcl:"annual_liability_insurance"`
	AnnualComprehensiveInsurance float64   `hcl:"annual_comprehensive_insurance"`
	AnnualInspectionCost         float64   `hcl:"annual_inspection_cost"`
	ParkingNightlyRate           float64   `hcl:"parking_nightly_rate"`
	MonthlyCommunications        float64   `hcl:"monthly_communications"`
}

type policyBlock struct {
	ID                string  `hcl:"id,label"`
	MarginPct         float64 `hcl:"margin_pct"`
	RoundingIncrement float64 `hcl:"rounding_increment"`
	ValidityHours     int     `hcl:"validity_hours,optional"`
	Active            bool    `hcl:"active,optional"`
	EffectiveFrom     string  `hcl:"effective_from"`
}

type terrainBlock struct {
	From        string  `hcl:"from,label"`
	To          string  `hcl:"to,label"`
	Flat        float64 `hcl:"flat"`
	Hilly       float64 `hcl:"hilly"`
	Mountainous float64 `hcl:"mountainous"`
	TollLight   float64 `hcl:"toll_light"`
	TollHeavy   float64 `hcl:"toll_heavy"`
}

type distanceBlock struct {
	From      string  `hcl:"from,label"`
	To        string  `hcl:"to,label"`
	Km        float64 `hcl:"km"`
	Validated bool    `hcl:"validated,optional"`
}

type locationBlock struct {
	Code string  `hcl:"code,label"`
	Lat  float64 `hcl:"lat"`
	Lng  float64 `hcl:"lng"`
}

// splitTolerance bounds the rounding slack allowed in terrain shares
const splitTolerance = 1e-6

// Load reads and decodes a catalog file
func Load(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, src)
}

// Decode parses HCL source; filename must end in .hcl
func Decode(filename string, src []byte) (*Catalog, error) {
	var f file
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return nil, ferrors.Wrap(ferrors.TypeConfig, "decode catalog "+filename, err)
	}
	return f.convert()
}

func (f *file) convert() (*Catalog, error) {
	c := &Catalog{Locations: make(map[string]types.Coordinates)}

	for _, b := range f.Economic {
		period, err := types.ParsePeriod(b.Period)
		if err != nil {
			return nil, err
		}
		c.Economic = append(c.Economic, types.EconomicPeriodParams{
			Period:              period,
			FuelPricePerGallon:  decimal.NewFromFloat(b.FuelPricePerGallon),
			MinimumWage:         decimal.NewFromFloat(b.MinimumWage),
			MonthlyInterestRate: decimal.NewFromFloat(b.MonthlyInterestRate),
		})
	}

	for _, b := range f.Vehicles {
		class := types.VehicleClass(b.Class)
		if !class.IsValid() {
			return nil, fmt.Errorf("vehicle %q: unknown class", b.Class)
		}
		year, err := strconv.Atoi(b.Year)
		if err != nil {
			return nil, fmt.Errorf("vehicle %s: invalid model year %q", b.Class, b.Year)
		}
		c.Vehicles = append(c.Vehicles, types.VehicleClassParams{
			Class:                        class,
			ModelYear:                    year,
			VehicleValue:                 decimal.NewFromFloat(b.VehicleValue),
			AmortizationMonths:           b.AmortizationMonths,
			TractionTires:                b.TractionTires.convert(),
			SteeringTires:                b.SteeringTires.convert(),
			LubricantsPerKm:              decimal.NewFromFloat(b.LubricantsPerKm),
			FiltersPerKm:                 decimal.NewFromFloat(b.FiltersPerKm),
			WashGreasePerKm:              decimal.NewFromFloat(b.WashGreasePerKm),
			MaintenancePerKm:             decimal.NewFromFloat(b.MaintenancePerKm),
			AnnualLiabilityInsurance:     decimal.NewFromFloat(b.AnnualLiabilityInsurance),
			AnnualComprehensiveInsurance: decimal.NewFromFloat(b.AnnualComprehensiveInsurance),
			AnnualInspectionCost:         decimal.NewFromFloat(b.AnnualInspectionCost),
			ParkingNightlyRate:           decimal.NewFromFloat(b.ParkingNightlyRate),
			MonthlyCommunications:        decimal.NewFromFloat(b.MonthlyCommunications),
		})
	}

	for _, b := range f.Policies {
		from, err := time.Parse("2006-01-02", b.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("policy %s: invalid effective_from %q", b.ID, b.EffectiveFrom)
		}
		c.Policies = append(c.Policies, types.CommercialPolicy{
			ID:                b.ID,
			MarginPct:         decimal.NewFromFloat(b.MarginPct),
			RoundingIncrement: decimal.NewFromFloat(b.RoundingIncrement),
			ValidityHours:     b.ValidityHours,
			Active:            b.Active,
			EffectiveFrom:     from,
		})
	}

	for _, b := range f.Terrain {
		split := types.TerrainSplit{Flat: b.Flat, Hilly: b.Hilly, Mountainous: b.Mountainous}
		if math.Abs(split.Sum()-1) > splitTolerance {
			return nil, fmt.Errorf("terrain %s-%s: shares sum to %v, want 1", b.From, b.To, split.Sum())
		}
		c.Terrain = append(c.Terrain, types.RouteTerrainProfile{
			Route:     types.NewRouteKey(b.From, b.To),
			Split:     split,
			TollLight: decimal.NewFromFloat(b.TollLight),
			TollHeavy: decimal.NewFromFloat(b.TollHeavy),
		})
	}

	for _, b := range f.Distances {
		c.Distances = append(c.Distances, types.DistanceRecord{
			Route:     types.NewRouteKey(b.From, b.To),
			Km:        b.Km,
			Validated: b.Validated,
		})
	}

	for _, b := range f.Locations {
		c.Locations[b.Code] = types.Coordinates{Lat: b.Lat, Lng: b.Lng}
	}
	return c, nil
}

func (t tireBlock) convert() types.TireGroup {
	return types.TireGroup{
		UnitPrice: decimal.NewFromFloat(t.UnitPrice),
		Quantity:  t.Quantity,
		LifeKm:    t.LifeKm,
	}
}

// Apply writes every entry into sink
func (c *Catalog) Apply(ctx context.Context, sink Sink) error {
	for _, p := range c.Economic {
		if err := sink.PutEconomicParams(ctx, p); err != nil {
			return fmt.Errorf("economic %s: %w", p.Period, err)
		}
	}
	for _, p := range c.Vehicles {
		if err := sink.PutVehicleParams(ctx, p); err != nil {
			return fmt.Errorf("vehicle %s/%d: %w", p.Class, p.ModelYear, err)
		}
	}
	for _, p := range c.Policies {
		if err := sink.PutCommercialPolicy(ctx, p); err != nil {
			return fmt.Errorf("policy %s: %w", p.ID, err)
		}
	}
	for _, p := range c.Terrain {
		if err := sink.PutTerrainProfile(ctx, p); err != nil {
			return fmt.Errorf("terrain %s: %w", p.Route, err)
		}
	}
	for _, d := range c.Distances {
		if err := sink.PutDistance(ctx, d); err != nil {
			return fmt.Errorf("distance %s: %w", d.Route, err)
		}
	}
	for _, code := range determinism.SortedKeys(c.Locations) {
		if err := sink.PutCoordinates(ctx, code, c.Locations[code]); err != nil {
			return fmt.Errorf("location %s: %w", code, err)
		}
	}
	return nil
}
