// Package types - versioned parameter sets
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// EconomicPeriodParams is the macro snapshot for one period. Immutable once published.
type EconomicPeriodParams struct {
	Period Period `json:"period"`

	// FuelPricePerGallon is the diesel price per gallon
	FuelPricePerGallon decimal.Decimal `json:"fuel_price_per_gallon"`

	// MinimumWage is the statutory monthly minimum wage
	MinimumWage decimal.Decimal `json:"minimum_wage"`

	// MonthlyInterestRate is a fraction (0.012 = 1.2%)
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"`
}

// TireGroup describes the tires of one axle group
type TireGroup struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LifeKm    float64         `json:"life_km"`
}

// VehicleClassParams holds the cost parameters of one class for one model year
type VehicleClassParams struct {
	Class     VehicleClass `json:"class"`
	ModelYear int          `json:"model_year"`

	VehicleValue       decimal.Decimal `json:"vehicle_value"`
	AmortizationMonths int             `json:"amortization_months"`

	TractionTires TireGroup `json:"traction_tires"`
	SteeringTires TireGroup `json:"steering_tires"`

	// Per-km indices
	LubricantsPerKm  decimal.Decimal `json:"lubricants_per_km"`
	FiltersPerKm     decimal.Decimal `json:"filters_per_km"`
	WashGreasePerKm  decimal.Decimal `json:"wash_grease_per_km"`
	MaintenancePerKm decimal.Decimal `json:"maintenance_per_km"`

	AnnualLiabilityInsurance     decimal.Decimal `json:"annual_liability_insurance"`
	AnnualComprehensiveInsurance decimal.Decimal `json:"annual_comprehensive_insurance"`
	AnnualInspectionCost         decimal.Decimal `json:"annual_inspection_cost"`

	ParkingNightlyRate    decimal.Decimal `json:"parking_nightly_rate"`
	MonthlyCommunications decimal.Decimal `json:"monthly_communications"`
}

// CommercialPolicy is the margin policy applied over the regulated floor
type CommercialPolicy struct {
	ID                string          `json:"id"`
	MarginPct         decimal.Decimal `json:"margin_pct"`
	RoundingIncrement decimal.Decimal `json:"rounding_increment"`
	ValidityHours     int             `json:"validity_hours"`
	Active            bool            `json:"active"`
	EffectiveFrom     time.Time       `json:"effective_from"`
}

// TerrainSplit is the share of a route that is flat, hilly, mountainous. Sums to 1.
type TerrainSplit struct {
	Flat        float64 `json:"flat"`
	Hilly       float64 `json:"hilly"`
	Mountainous float64 `json:"mountainous"`
}

// Sum returns the total share
func (s TerrainSplit) Sum() float64 {
	return s.Flat + s.Hilly + s.Mountainous
}

// Share returns the fraction for a segment
func (s TerrainSplit) Share(seg Segment) float64 {
	switch seg {
	case SegmentFlat:
		return s.Flat
	case SegmentHilly:
		return s.Hilly
	default:
		return s.Mountainous
	}
}

// Segment is a terrain segment kind
type Segment string

const (
	SegmentFlat        Segment = "flat"
	SegmentHilly       Segment = "hilly"
	SegmentMountainous Segment = "mountainous"
)

// Segments lists segments in a fixed order so sums are reproducible
var Segments = []Segment{SegmentFlat, SegmentHilly, SegmentMountainous}

// RouteTerrainProfile describes a route; keyed by an unordered location pair
type RouteTerrainProfile struct {
	Route     RouteKey        `json:"route"`
	Split     TerrainSplit    `json:"split"`
	TollLight decimal.Decimal `json:"toll_light"`
	TollHeavy decimal.Decimal `json:"toll_heavy"`
}

// TollFor returns the class-appropriate toll total
func (p RouteTerrainProfile) TollFor(class VehicleClass) decimal.Decimal {
	if class.LightToll() {
		return p.TollLight
	}
	return p.TollHeavy
}
