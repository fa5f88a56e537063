package cost

import (
	"testing"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
	"freight-rate/core/vehicle"
	ferrors "freight-rate/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testEconomic() types.EconomicPeriodParams {
	return types.EconomicPeriodParams{
		Period:              types.Period{Year: 2026, Month: 10},
		FuelPricePerGallon:  d("10000"),
		MinimumWage:         d("1000000"),
		MonthlyInterestRate: decimal.Zero,
	}
}

func testVehicle() types.VehicleClassParams {
	return types.VehicleClassParams{
		Class:                        types.ClassC2,
		ModelYear:                    2026,
		VehicleValue:                 d("120000000"),
		AmortizationMonths:           60,
		TractionTires:                types.TireGroup{UnitPrice: d("1000000"), Quantity: 4, LifeKm: 80000},
		SteeringTires:                types.TireGroup{UnitPrice: d("900000"), Quantity: 2, LifeKm: 60000},
		LubricantsPerKm:              d("40"),
		FiltersPerKm:                 d("10"),
		WashGreasePerKm:              d("20"),
		MaintenancePerKm:             d("100"),
		AnnualLiabilityInsurance:     d("1200000"),
		AnnualComprehensiveInsurance: d("6000000"),
		AnnualInspectionCost:         d("360000"),
		ParkingNightlyRate:           d("10000"),
		MonthlyCommunications:        d("100000"),
	}
}

func testInput(km float64) Input {
	return Input{
		Class:      types.ClassC2,
		DistanceKm: km,
		Terrain: vehicle.Terrain{
			Split:  types.TerrainSplit{Flat: 1},
			Tolls:  d("12000"),
			Source: types.ProvenanceTable,
		},
		TripsPerMonth: 10,
		Economic:      testEconomic(),
		Vehicle:       testVehicle(),
	}
}

func TestAccumulate(t *testing.T) {
	got, err := Accumulate(testInput(100))
	if err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"fuel", got.Fuel, "83333"},
		{"tolls", got.Tolls, "12000"},
		{"tires", got.Tires, "8000"},
		{"lubricants", got.Lubricants, "4000"},
		{"filters", got.Filters, "1000"},
		{"wash/grease", got.WashGrease, "2000"},
		{"maintenance", got.Maintenance, "10000"},
		{"contingency", got.Contingency, "1875"},
		{"variable total", got.VariableTotal, "122208"},
		{"capital", got.Capital, "2000000"},
		{"labor", got.Labor, "2660000"},
		{"insurance", got.Insurance, "600000"},
		{"vehicle tax", got.VehicleTax, "50000"},
		{"parking", got.Parking, "300000"},
		{"communications", got.Communications, "100000"},
		{"inspection", got.Inspection, "30000"},
		{"fixed monthly", got.FixedMonthlyTotal, "5740000"},
		{"fixed per trip", got.FixedPerTrip, "574000"},
	}
	for _, c := range checks {
		if !c.got.Equal(d(c.want)) {
			t.Errorf("%s: got %s, want %s", c.name, c.got, c.want)
		}
	}

	if got.Exact.Variable.Equal(got.VariableTotal) {
		t.Error("Expected exact variable total to keep its fraction")
	}
	if got.TripsPerMonth != 10 {
		t.Errorf("Expected 10 trips, got %d", got.TripsPerMonth)
	}
}

// TestContingencyExcludesFuelAndTolls proves only the wear items feed contingency
func TestContingencyExcludesFuelAndTolls(t *testing.T) {
	base := testInput(250)
	want := variableCosts(base).contingency

	pricey := testInput(250)
	pricey.Economic.FuelPricePerGallon = d("25000")
	pricey.Terrain.Tolls = d("900000")
	v := variableCosts(pricey)

	if !v.contingency.Equal(want) {
		t.Errorf("Contingency moved with fuel or tolls: %s vs %s", v.contingency, want)
	}

	wear := v.tires.Add(v.lubricants).Add(v.filters).Add(v.washGrease).Add(v.maintenance)
	if !v.contingency.Equal(wear.Mul(ContingencyRate)) {
		t.Errorf("Expected contingency %s, got %s", wear.Mul(ContingencyRate), v.contingency)
	}
}

func TestVariableCostGrowsWithDistance(t *testing.T) {
	prev := decimal.Zero
	for _, km := range []float64{50, 100, 400, 900} {
		got, err := Accumulate(testInput(km))
		if err != nil {
			t.Fatal(err)
		}
		if !got.Exact.Variable.GreaterThan(prev) {
			t.Errorf("Variable cost at %v km (%s) not above %s", km, got.Exact.Variable, prev)
		}
		prev = got.Exact.Variable
	}
}

func TestFuel(t *testing.T) {
	flat := types.TerrainSplit{Flat: 1}
	if got := Fuel(types.ClassC2, flat, 120, d("12000")); !got.Equal(d("120000")) {
		t.Errorf("Expected 12000/12 x 120 = 120000, got %s", got)
	}

	// mountain driving burns more per km
	mountain := types.TerrainSplit{Mountainous: 1}
	if !Fuel(types.ClassC2, mountain, 120, d("12000")).GreaterThan(Fuel(types.ClassC2, flat, 120, d("12000"))) {
		t.Error("Expected mountainous fuel to exceed flat fuel")
	}
}

func TestTiresPerKm(t *testing.T) {
	// 4 x 1,000,000 / 80,000 + 2 x 900,000 / 60,000
	if got := TiresPerKm(testVehicle()); !got.Equal(d("80")) {
		t.Errorf("Expected 80 per km, got %s", got)
	}

	p := testVehicle()
	p.SteeringTires = types.TireGroup{}
	if got := TiresPerKm(p); !got.Equal(d("50")) {
		t.Errorf("Expected empty group to contribute nothing, got %s", got)
	}
}

func TestCapitalPayment(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		rate   string
		months int
		want   string
	}{
		{"zero rate is straight line", "120000", "0", 12, "10000"},
		{"one percent over a year", "100000", "0.01", 12, "8884.88"},
		{"single period", "100000", "0.02", 1, "102000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CapitalPayment(d(tt.value), d(tt.rate), tt.months).Round(2)
			if !got.Equal(d(tt.want)) {
				t.Errorf("CapitalPayment = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLabor(t *testing.T) {
	// (1.5 + 0.25) x 1.52 x wage
	if got := Labor(d("1000000")); !got.Equal(d("2660000")) {
		t.Errorf("Expected 2660000, got %s", got)
	}
}

func TestAccumulateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"zero distance", func(in *Input) { in.DistanceKm = 0 }},
		{"zero trips", func(in *Input) { in.TripsPerMonth = 0 }},
		{"no amortization", func(in *Input) { in.Vehicle.AmortizationMonths = 0 }},
		{"tires without life", func(in *Input) { in.Vehicle.TractionTires.LifeKm = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput(100)
			tt.mutate(&in)
			if _, err := Accumulate(in); !ferrors.IsType(err, ferrors.TypeInput) {
				t.Errorf("Expected input error, got %v", err)
			}
		})
	}
}
