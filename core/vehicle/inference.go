// Package vehicle infers the truck class, the terrain of a route and the
// operating rhythm (average speed, trips per month) a quotation is built on.
package vehicle

import (
	"math"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
	ferrors "freight-rate/internal/errors"
)

// weightRule maps loads up to MaxKg (inclusive) to a class; MaxKg 0 is open-ended
type weightRule struct {
	MaxKg float64
	Class types.VehicleClass
}

var specializedRules = []weightRule{
	{MaxKg: 25000, Class: types.ClassC2S2},
	{MaxKg: 30000, Class: types.ClassC3S2},
	{MaxKg: 0, Class: types.ClassC3S3},
}

var standardRules = []weightRule{
	{MaxKg: 8000, Class: types.ClassC2},
	{MaxKg: 17000, Class: types.ClassC3},
	{MaxKg: 25000, Class: types.ClassC2S2},
	{MaxKg: 0, Class: types.ClassC3S3},
}

// InferClass picks the vehicle class for a load. A weight exactly on a
// threshold stays in the lower class.
func InferClass(weightKg float64, cargo types.CargoType) types.VehicleClass {
	rules := standardRules
	if cargo.Specialized() {
		rules = specializedRules
	}
	for _, r := range rules {
		if r.MaxKg == 0 || weightKg <= r.MaxKg {
			return r.Class
		}
	}
	return rules[len(rules)-1].Class
}

// Terrain is the inferred terrain of a route
type Terrain struct {
	Split  types.TerrainSplit `json:"split"`
	Tolls  decimal.Decimal    `json:"tolls"`
	Source types.Provenance   `json:"source"`
}

// InferTerrain uses the route profile when there is one, otherwise the
// default split for the distance and a per-km toll estimate.
func InferTerrain(profile *types.RouteTerrainProfile, km float64, class types.VehicleClass) Terrain {
	if profile != nil {
		return Terrain{
			Split:  profile.Split,
			Tolls:  profile.TollFor(class),
			Source: types.ProvenanceTable,
		}
	}
	return Terrain{
		Split:  DefaultSplit(km),
		Tolls:  EstimateTolls(km, class),
		Source: types.ProvenanceDefault,
	}
}

// DefaultSplit returns the bracketed split for a distance
func DefaultSplit(km float64) types.TerrainSplit {
	for _, b := range defaultBrackets {
		if b.UpToKm == 0 || km < b.UpToKm {
			return b.Split
		}
	}
	return defaultBrackets[len(defaultBrackets)-1].Split
}

// EstimateTolls is distance times the class toll factor
func EstimateTolls(km float64, class types.VehicleClass) decimal.Decimal {
	return decimal.NewFromFloat(km).Mul(decimal.NewFromInt(tollPerKm[class]))
}

// AverageSpeed is Σ(segment_km × segment_speed) / total_km
func AverageSpeed(class types.VehicleClass, split types.TerrainSplit, km float64) float64 {
	if km <= 0 {
		return 0
	}
	var weighted float64
	for _, seg := range types.Segments {
		weighted += km * split.Share(seg) * Speed(class, seg)
	}
	return weighted / km
}

// TripsPerMonth is floor(monthly hours / round-trip hours). Zero is an error.
func TripsPerMonth(oneWayHours float64) (int, error) {
	if oneWayHours <= 0 {
		return 0, ferrors.Input("one-way travel time must be positive")
	}
	trips := int(math.Floor(MonthlyOperatingHours / (2 * oneWayHours)))
	if trips == 0 {
		return 0, ferrors.RouteTooLong(oneWayHours)
	}
	return trips, nil
}

// Rhythm is the operating rhythm of a class on a route
type Rhythm struct {
	AverageSpeedKmh float64 `json:"average_speed_kmh"`
	OneWayHours     float64 `json:"one_way_hours"`
	TripsPerMonth   int     `json:"trips_per_month"`
}

// ComputeRhythm chains AverageSpeed and TripsPerMonth
func ComputeRhythm(class types.VehicleClass, split types.TerrainSplit, km float64) (Rhythm, error) {
	if !class.IsValid() {
		return Rhythm{}, ferrors.Input("unknown vehicle class " + class.String())
	}
	speed := AverageSpeed(class, split, km)
	if speed <= 0 {
		return Rhythm{}, ferrors.Input("distance must be positive")
	}
	hours := km / speed
	trips, err := TripsPerMonth(hours)
	if err != nil {
		return Rhythm{}, err
	}
	return Rhythm{AverageSpeedKmh: speed, OneWayHours: hours, TripsPerMonth: trips}, nil
}
