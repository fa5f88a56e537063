// Package engine chains vehicle/terrain inference, cost accumulation and
// pricing into a quotation. ComputeQuotation is pure over an explicit
// parameter Snapshot; Service resolves that snapshot from a Repository.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"freight-rate/core/cost"
	"freight-rate/core/pricing"
	"freight-rate/core/types"
	"freight-rate/core/vehicle"
	ferrors "freight-rate/internal/errors"
)

// QuotationRequest is the validated input of a quotation.
// Nil optional fields fall back to inference or policy.
type QuotationRequest struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	DistanceKm  float64         `json:"distance_km"`
	WeightKg    float64         `json:"weight_kg"`
	CargoType   types.CargoType `json:"cargo_type"`
	TargetDate  time.Time       `json:"target_date"`

	VehicleClassOverride *types.VehicleClass `json:"vehicle_class_override,omitempty"`
	MarginOverride       *decimal.Decimal    `json:"margin_override,omitempty"`
	RoundingOverride     *decimal.Decimal    `json:"rounding_override,omitempty"`
}

// Validate rejects malformed requests before any computation
func (r QuotationRequest) Validate() error {
	switch {
	case r.Origin == "" || r.Destination == "":
		return ferrors.Input("origin and destination are required")
	case r.DistanceKm <= 0:
		return ferrors.Input("distance must be positive")
	case r.WeightKg <= 0:
		return ferrors.Input("weight must be positive")
	case !r.CargoType.IsValid():
		return ferrors.Input("unknown cargo type " + string(r.CargoType))
	case r.TargetDate.IsZero():
		return ferrors.Input("target date is required")
	case r.VehicleClassOverride != nil && !r.VehicleClassOverride.IsValid():
		return ferrors.Input("unknown vehicle class " + r.VehicleClassOverride.String())
	case r.MarginOverride != nil && r.MarginOverride.IsNegative():
		return ferrors.Input("margin must not be negative")
	case r.RoundingOverride != nil && !r.RoundingOverride.IsPositive():
		return ferrors.Input("rounding increment must be positive")
	}
	return nil
}

// VehicleClass returns the override or the inferred class
func (r QuotationRequest) VehicleClass() types.VehicleClass {
	if r.VehicleClassOverride != nil {
		return *r.VehicleClassOverride
	}
	return vehicle.InferClass(r.WeightKg, r.CargoType)
}

// Snapshot is every external parameter a quotation depends on
type Snapshot struct {
	Economic         types.EconomicPeriodParams
	EconomicFallback bool
	Vehicle          types.VehicleClassParams
	VehicleFallback  bool
	Policy           *types.CommercialPolicy
	Terrain          *types.RouteTerrainProfile
}

// ComputeQuotation prices a request against a snapshot. Identical inputs
// give identical results.
func ComputeQuotation(req QuotationRequest, snap Snapshot, defaults pricing.Defaults) (*types.QuotationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	class := req.VehicleClass()
	if snap.Vehicle.Class != class {
		return nil, ferrors.VehicleParamsNotFound(class.String())
	}

	terrain := vehicle.InferTerrain(snap.Terrain, req.DistanceKm, class)
	rhythm, err := vehicle.ComputeRhythm(class, terrain.Split, req.DistanceKm)
	if err != nil {
		return nil, err
	}

	costs, err := cost.Accumulate(cost.Input{
		Class:         class,
		DistanceKm:    req.DistanceKm,
		Terrain:       terrain,
		TripsPerMonth: rhythm.TripsPerMonth,
		Economic:      snap.Economic,
		Vehicle:       snap.Vehicle,
	})
	if err != nil {
		return nil, err
	}

	terms := pricing.ResolveTerms(snap.Policy, req.MarginOverride, req.RoundingOverride, defaults)
	price, err := pricing.Calculate(costs, terms)
	if err != nil {
		return nil, err
	}

	return &types.QuotationResult{
		Origin:      req.Origin,
		Destination: req.Destination,
		TargetDate:  req.TargetDate,
		CargoType:   req.CargoType,
		WeightKg:    req.WeightKg,

		VehicleClass:           class,
		VehicleClassOverridden: req.VehicleClassOverride != nil,

		DistanceKm:      req.DistanceKm,
		Terrain:         terrain.Split,
		AverageSpeedKmh: rhythm.AverageSpeedKmh,
		OneWayHours:     rhythm.OneWayHours,
		TripsPerMonth:   rhythm.TripsPerMonth,

		Costs: costs,

		TechnicalBaseCost: price.TechnicalBase.Round(0),
		FloorPrice:        price.Floor.Round(0),
		SuggestedPrice:    price.Suggested,
		MarginPct:         terms.MarginPct,
		RoundingIncrement: terms.RoundingIncrement,
		ValidUntil:        pricing.ValidUntil(req.TargetDate, terms.ValidityHours),

		Parameters: types.ParameterSnapshot{
			Economic:         snap.Economic,
			RequestedPeriod:  types.PeriodOf(req.TargetDate),
			EconomicFallback: snap.EconomicFallback,
			Vehicle:          snap.Vehicle,
			RequestedYear:    req.TargetDate.Year(),
			VehicleFallback:  snap.VehicleFallback,
			Policy:           snap.Policy,
			MarginSource:     terms.MarginSource,
			Terrain:          snap.Terrain,
			TerrainSource:    terrain.Source,
		},
	}, nil
}
