package vehicle

import "freight-rate/core/types"

// MonthlyOperatingHours is the driving capacity of one truck per month
const MonthlyOperatingHours = 288.0

// segmentTable holds one value per terrain segment
type segmentTable struct {
	Flat, Hilly, Mountainous float64
}

func (t segmentTable) get(seg types.Segment) float64 {
	switch seg {
	case types.SegmentFlat:
		return t.Flat
	case types.SegmentHilly:
		return t.Hilly
	default:
		return t.Mountainous
	}
}

// speeds in km/h
var speeds = map[types.VehicleClass]segmentTable{
	types.ClassC2:   {60, 45, 30},
	types.ClassC3:   {55, 40, 28},
	types.ClassC2S2: {55, 38, 25},
	types.ClassC3S2: {52, 36, 24},
	types.ClassC3S3: {50, 35, 22},
}

// fuel efficiency in km per gallon
var fuelEfficiency = map[types.VehicleClass]segmentTable{
	types.ClassC2:   {12, 9, 7},
	types.ClassC3:   {9, 7, 5.5},
	types.ClassC2S2: {8, 6, 4.5},
	types.ClassC3S2: {7, 5.5, 4},
	types.ClassC3S3: {6.5, 5, 3.5},
}

// tollPerKm estimates tolls when no route profile exists, currency per km
var tollPerKm = map[types.VehicleClass]int64{
	types.ClassC2:   120,
	types.ClassC3:   160,
	types.ClassC2S2: 210,
	types.ClassC3S2: 230,
	types.ClassC3S3: 250,
}

// terrainBracket is a default split for routes shorter than UpToKm
type terrainBracket struct {
	UpToKm float64
	Split  types.TerrainSplit
}

// defaultBrackets are tried in order; the last one has no upper bound
var defaultBrackets = []terrainBracket{
	{UpToKm: 150, Split: types.TerrainSplit{Flat: 0.70, Hilly: 0.20, Mountainous: 0.10}},
	{UpToKm: 400, Split: types.TerrainSplit{Flat: 0.60, Hilly: 0.25, Mountainous: 0.15}},
	{UpToKm: 800, Split: types.TerrainSplit{Flat: 0.50, Hilly: 0.30, Mountainous: 0.20}},
	{UpToKm: 0, Split: types.TerrainSplit{Flat: 0.40, Hilly: 0.35, Mountainous: 0.25}},
}

// Speed returns the class speed on a segment, km/h
func Speed(class types.VehicleClass, seg types.Segment) float64 {
	return speeds[class].get(seg)
}

// FuelEfficiency returns km per gallon for a class on a segment
func FuelEfficiency(class types.VehicleClass, seg types.Segment) float64 {
	return fuelEfficiency[class].get(seg)
}
