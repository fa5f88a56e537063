package vehicle

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
	ferrors "freight-rate/internal/errors"
)

func TestInferClass(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		cargo  types.CargoType
		want   types.VehicleClass
	}{
		{"light general", 5000, types.CargoGeneral, types.ClassC2},
		{"on C2 threshold", 8000, types.CargoGeneral, types.ClassC2},
		{"just above C2", 8001, types.CargoGeneral, types.ClassC3},
		{"mid C3", 9000, types.CargoGeneral, types.ClassC3},
		{"on C3 threshold", 17000, types.CargoGeneral, types.ClassC3},
		{"articulated", 17001, types.CargoGeneral, types.ClassC2S2},
		{"on C2S2 threshold", 25000, types.CargoGeneral, types.ClassC2S2},
		{"heavy general", 25001, types.CargoGeneral, types.ClassC3S3},
		{"refrigerated follows general", 12000, types.CargoRefrigerated, types.ClassC3},
		{"dry bulk follows general", 4000, types.CargoDryBulk, types.ClassC2},
		{"light container", 3000, types.CargoContainer, types.ClassC2S2},
		{"container on threshold", 25000, types.CargoContainer, types.ClassC2S2},
		{"container C3S2", 28000, types.CargoContainer, types.ClassC3S2},
		{"liquid bulk on C3S2 threshold", 30000, types.CargoLiquidBulk, types.ClassC3S2},
		{"liquid bulk heavy", 30001, types.CargoLiquidBulk, types.ClassC3S3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferClass(tt.weight, tt.cargo); got != tt.want {
				t.Errorf("InferClass(%v, %s) = %s, want %s", tt.weight, tt.cargo, got, tt.want)
			}
		})
	}
}

func TestDefaultSplit(t *testing.T) {
	tests := []struct {
		km   float64
		want types.TerrainSplit
	}{
		{50, types.TerrainSplit{Flat: 0.70, Hilly: 0.20, Mountainous: 0.10}},
		{149.9, types.TerrainSplit{Flat: 0.70, Hilly: 0.20, Mountainous: 0.10}},
		{150, types.TerrainSplit{Flat: 0.60, Hilly: 0.25, Mountainous: 0.15}},
		{399, types.TerrainSplit{Flat: 0.60, Hilly: 0.25, Mountainous: 0.15}},
		{550, types.TerrainSplit{Flat: 0.50, Hilly: 0.30, Mountainous: 0.20}},
		{800, types.TerrainSplit{Flat: 0.40, Hilly: 0.35, Mountainous: 0.25}},
		{1500, types.TerrainSplit{Flat: 0.40, Hilly: 0.35, Mountainous: 0.25}},
	}
	for _, tt := range tests {
		got := DefaultSplit(tt.km)
		if got != tt.want {
			t.Errorf("DefaultSplit(%v) = %+v, want %+v", tt.km, got, tt.want)
		}
		if math.Abs(got.Sum()-1) > 1e-9 {
			t.Errorf("DefaultSplit(%v) sums to %v", tt.km, got.Sum())
		}
	}
}

func TestInferTerrainPrefersProfile(t *testing.T) {
	profile := &types.RouteTerrainProfile{
		Route:     types.NewRouteKey("05001", "11001"),
		Split:     types.TerrainSplit{Flat: 0.3, Hilly: 0.3, Mountainous: 0.4},
		TollLight: decimal.NewFromInt(148000),
		TollHeavy: decimal.NewFromInt(412000),
	}

	light := InferTerrain(profile, 415, types.ClassC3)
	if light.Source != types.ProvenanceTable {
		t.Errorf("Expected table source, got %s", light.Source)
	}
	if !light.Tolls.Equal(decimal.NewFromInt(148000)) {
		t.Errorf("Expected light toll 148000 for C3, got %s", light.Tolls)
	}
	if light.Split != profile.Split {
		t.Errorf("Expected profile split, got %+v", light.Split)
	}

	heavy := InferTerrain(profile, 415, types.ClassC3S3)
	if !heavy.Tolls.Equal(decimal.NewFromInt(412000)) {
		t.Errorf("Expected heavy toll 412000 for C3S3, got %s", heavy.Tolls)
	}
}

func TestInferTerrainDefault(t *testing.T) {
	got := InferTerrain(nil, 100, types.ClassC2)
	if got.Source != types.ProvenanceDefault {
		t.Errorf("Expected default source, got %s", got.Source)
	}
	if !got.Tolls.Equal(decimal.NewFromInt(12000)) {
		t.Errorf("Expected 100 km x 120 = 12000, got %s", got.Tolls)
	}
	if got.Split != DefaultSplit(100) {
		t.Errorf("Expected bracket split, got %+v", got.Split)
	}
}

func TestAverageSpeed(t *testing.T) {
	split := DefaultSplit(550)
	// 0.5*60 + 0.3*45 + 0.2*30
	if got := AverageSpeed(types.ClassC2, split, 550); math.Abs(got-49.5) > 1e-9 {
		t.Errorf("AverageSpeed = %v, want 49.5", got)
	}
	if got := AverageSpeed(types.ClassC2, split, 0); got != 0 {
		t.Errorf("AverageSpeed on zero km = %v, want 0", got)
	}

	// heavier classes are never faster on the same split
	prev := math.Inf(1)
	for _, class := range types.VehicleClasses {
		got := AverageSpeed(class, split, 550)
		if got > prev {
			t.Errorf("%s faster than the class before it: %v > %v", class, got, prev)
		}
		prev = got
	}
}

func TestTripsPerMonth(t *testing.T) {
	tests := []struct {
		hours float64
		want  int
	}{
		{8, 18},
		{10, 14},
		{144, 1},
	}
	for _, tt := range tests {
		got, err := TripsPerMonth(tt.hours)
		if err != nil {
			t.Fatalf("TripsPerMonth(%v): %v", tt.hours, err)
		}
		if got != tt.want {
			t.Errorf("TripsPerMonth(%v) = %d, want %d", tt.hours, got, tt.want)
		}
	}
}

func TestTripsPerMonthRouteTooLong(t *testing.T) {
	_, err := TripsPerMonth(144.5)
	if !ferrors.IsType(err, ferrors.TypeRouteTooLong) {
		t.Fatalf("Expected %s, got %v", ferrors.TypeRouteTooLong, err)
	}

	_, err = TripsPerMonth(0)
	if !ferrors.IsType(err, ferrors.TypeInput) {
		t.Errorf("Expected input error for zero hours, got %v", err)
	}
}

func TestComputeRhythm(t *testing.T) {
	split := types.TerrainSplit{Flat: 1}
	r, err := ComputeRhythm(types.ClassC2, split, 480)
	if err != nil {
		t.Fatal(err)
	}
	if r.AverageSpeedKmh != 60 {
		t.Errorf("Expected 60 km/h on flat, got %v", r.AverageSpeedKmh)
	}
	if r.OneWayHours != 8 {
		t.Errorf("Expected 8 h, got %v", r.OneWayHours)
	}
	if r.TripsPerMonth != 18 {
		t.Errorf("Expected 18 trips, got %d", r.TripsPerMonth)
	}

	if _, err := ComputeRhythm("C9", split, 480); !ferrors.IsType(err, ferrors.TypeInput) {
		t.Errorf("Expected input error for unknown class, got %v", err)
	}

	// 50 km/h on flat: 7300 km takes 146 h one way
	if _, err := ComputeRhythm(types.ClassC3S3, split, 7300); !ferrors.IsType(err, ferrors.TypeRouteTooLong) {
		t.Errorf("Expected route too long, got %v", err)
	}
}
