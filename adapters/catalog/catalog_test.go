package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
	"freight-rate/db/memory"
	ferrors "freight-rate/internal/errors"
)

func TestLoad(t *testing.T) {
	c, err := Load("testdata/catalog.hcl")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(c.Economic) != 1 || c.Economic[0].Period != (types.Period{Year: 2026, Month: 10}) {
		t.Fatalf("Unexpected economic periods: %+v", c.Economic)
	}
	if !c.Economic[0].MonthlyInterestRate.Equal(decimal.RequireFromString("0.0121")) {
		t.Errorf("Expected interest 0.0121, got %s", c.Economic[0].MonthlyInterestRate)
	}

	if len(c.Vehicles) != 1 {
		t.Fatalf("Expected 1 vehicle record, got %d", len(c.Vehicles))
	}
	v := c.Vehicles[0]
	if v.Class != types.ClassC3 || v.ModelYear != 2026 || v.TractionTires.Quantity != 8 || v.SteeringTires.LifeKm != 65000 {
		t.Errorf("Unexpected vehicle record: %+v", v)
	}

	if len(c.Policies) != 1 || !c.Policies[0].Active ||
		!c.Policies[0].EffectiveFrom.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected policies: %+v", c.Policies)
	}

	if len(c.Terrain) != 1 || c.Terrain[0].Route != types.NewRouteKey("05001", "11001") {
		t.Errorf("Expected canonical terrain route, got %+v", c.Terrain)
	}
	if len(c.Distances) != 1 || c.Distances[0].Km != 415 || !c.Distances[0].Validated {
		t.Errorf("Unexpected distances: %+v", c.Distances)
	}
	if pt, ok := c.Locations["11001"]; !ok || pt.Lat != 4.711 {
		t.Errorf("Unexpected locations: %+v", c.Locations)
	}
}

func TestApply(t *testing.T) {
	c, err := Load("testdata/catalog.hcl")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s := memory.New()
	if err := c.Apply(ctx, s); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	v, err := s.VehicleParams(ctx, types.ClassC3, 2026)
	if err != nil || v == nil {
		t.Fatalf("Expected vehicle record in store, got %v, %v", v, err)
	}
	p, err := s.TerrainProfile(ctx, types.NewRouteKey("11001", "05001"))
	if err != nil || p == nil || !p.TollHeavy.Equal(decimal.NewFromInt(412000)) {
		t.Errorf("Expected terrain profile in store, got %+v, %v", p, err)
	}
	pt, err := s.Coordinates(ctx, "11001")
	if err != nil || pt == nil {
		t.Errorf("Expected coordinates in store, got %+v, %v", pt, err)
	}
}

func TestDecodeRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad period", `economic "2026-13" {
  fuel_price_per_gallon = 1
  minimum_wage          = 1
  monthly_interest_rate = 0
}`},
		{"unknown class", `vehicle "C9" "2026" {
  vehicle_value       = 1
  amortization_months = 1
  traction_tires {
    unit_price = 1
    quantity   = 1
    life_km    = 1
  }
  steering_tires {
    unit_price = 1
    quantity   = 1
    life_km    = 1
  }
  lubricants_per_km              = 0
  filters_per_km                 = 0
  wash_grease_per_km             = 0
  maintenance_per_km             = 0
  annual_liability_insurance     = 0
  annual_comprehensive_insurance = 0
  annual_inspection_cost         = 0
  parking_nightly_rate           = 0
  monthly_communications         = 0
}`},
		{"terrain not summing to one", `terrain "A" "B" {
  flat        = 0.5
  hilly       = 0.3
  mountainous = 0.1
  toll_light  = 0
  toll_heavy  = 0
}`},
		{"bad policy date", `policy "p" {
  margin_pct         = 0.2
  rounding_increment = 1000
  effective_from     = "January"
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode("test.hcl", []byte(tt.src)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	_, err := Decode("broken.hcl", []byte(`economic "2026-10" {`))
	if !ferrors.IsType(err, ferrors.TypeConfig) {
		t.Errorf("Expected %s, got %v", ferrors.TypeConfig, err)
	}
}
