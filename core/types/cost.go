// Package types - derived, non-persisted results
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostBreakdown itemizes a trip. Item fields are rounded to whole currency units;
// Exact carries the un-rounded totals used downstream.
type CostBreakdown struct {
	// Variable, per trip
	Fuel          decimal.Decimal `json:"fuel"`
	Tolls         decimal.Decimal `json:"tolls"`
	Tires         decimal.Decimal `json:"tires"`
	Lubricants    decimal.Decimal `json:"lubricants"`
	Filters       decimal.Decimal `json:"filters"`
	WashGrease    decimal.Decimal `json:"wash_grease"`
	Maintenance   decimal.Decimal `json:"maintenance"`
	Contingency   decimal.Decimal `json:"contingency"`
	VariableTotal decimal.Decimal `json:"variable_total"`

	// Fixed, per month
	Capital           decimal.Decimal `json:"capital"`
	Labor             decimal.Decimal `json:"labor"`
	Insurance         decimal.Decimal `json:"insurance"`
	VehicleTax        decimal.Decimal `json:"vehicle_tax"`
	Parking           decimal.Decimal `json:"parking"`
	Communications    decimal.Decimal `json:"communications"`
	Inspection        decimal.Decimal `json:"inspection"`
	FixedMonthlyTotal decimal.Decimal `json:"fixed_monthly_total"`

	TripsPerMonth int             `json:"trips_per_month"`
	FixedPerTrip  decimal.Decimal `json:"fixed_per_trip"`

	Exact CostTotals `json:"exact"`
}

// CostTotals are un-rounded aggregates
type CostTotals struct {
	Variable     decimal.Decimal `json:"variable"`
	FixedMonthly decimal.Decimal `json:"fixed_monthly"`
	FixedPerTrip decimal.Decimal `json:"fixed_per_trip"`
}

// Provenance tags where a value came from
type Provenance string

const (
	ProvenanceTable    Provenance = "table"
	ProvenanceDefault  Provenance = "default"
	ProvenancePolicy   Provenance = "policy"
	ProvenanceOverride Provenance = "override"
)

// ParameterSnapshot records every parameter a quotation used
type ParameterSnapshot struct {
	Economic         EconomicPeriodParams `json:"economic"`
	RequestedPeriod  Period               `json:"requested_period"`
	EconomicFallback bool                 `json:"economic_fallback"`
	Vehicle          VehicleClassParams   `json:"vehicle"`
	RequestedYear    int                  `json:"requested_year"`
	VehicleFallback  bool                 `json:"vehicle_fallback"`
	Policy           *CommercialPolicy    `json:"policy,omitempty"`
	MarginSource     Provenance           `json:"margin_source"`
	Terrain          *RouteTerrainProfile `json:"terrain,omitempty"`
	TerrainSource    Provenance           `json:"terrain_source"`
}

// QuotationResult is the outcome of a quotation
type QuotationResult struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	TargetDate  time.Time `json:"target_date"`
	CargoType   CargoType `json:"cargo_type"`
	WeightKg    float64   `json:"weight_kg"`

	VehicleClass           VehicleClass `json:"vehicle_class"`
	VehicleClassOverridden bool         `json:"vehicle_class_overridden"`

	DistanceKm      float64      `json:"distance_km"`
	Terrain         TerrainSplit `json:"terrain"`
	AverageSpeedKmh float64      `json:"average_speed_kmh"`
	OneWayHours     float64      `json:"one_way_hours"`
	TripsPerMonth   int          `json:"trips_per_month"`

	Costs CostBreakdown `json:"costs"`

	TechnicalBaseCost decimal.Decimal `json:"technical_base_cost"`
	FloorPrice        decimal.Decimal `json:"floor_price"`
	SuggestedPrice    decimal.Decimal `json:"suggested_price"`
	MarginPct         decimal.Decimal `json:"margin_pct"`
	RoundingIncrement decimal.Decimal `json:"rounding_increment"`
	ValidUntil        time.Time       `json:"valid_until"`

	Parameters ParameterSnapshot `json:"parameters"`
}
