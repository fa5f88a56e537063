package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"freight-rate/core/market"
	"freight-rate/core/types"
)

func TestLatestEconomicParamsBefore(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, p := range []types.Period{{Year: 2025, Month: 12}, {Year: 2026, Month: 3}, {Year: 2026, Month: 6}} {
		if err := s.PutEconomicParams(ctx, types.EconomicPeriodParams{Period: p}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		period types.Period
		want   *types.Period
	}{
		{types.Period{Year: 2026, Month: 6}, &types.Period{Year: 2026, Month: 3}},
		{types.Period{Year: 2026, Month: 5}, &types.Period{Year: 2026, Month: 3}},
		{types.Period{Year: 2026, Month: 1}, &types.Period{Year: 2025, Month: 12}},
		{types.Period{Year: 2025, Month: 12}, nil},
	}
	for _, tt := range tests {
		got, err := s.LatestEconomicParamsBefore(ctx, tt.period)
		if err != nil {
			t.Fatal(err)
		}
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("Before %s: expected nil, got %s", tt.period, got.Period)
		case tt.want != nil && (got == nil || got.Period != *tt.want):
			t.Errorf("Before %s: expected %s, got %+v", tt.period, *tt.want, got)
		}
	}
}

func TestRouteKeysAreCanonical(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.PutDistance(ctx, types.DistanceRecord{Route: types.RouteKey{A: "76001", B: "11001"}, Km: 461}); err != nil {
		t.Fatal(err)
	}
	for _, key := range []types.RouteKey{{A: "76001", B: "11001"}, {A: "11001", B: "76001"}} {
		rec, err := s.Distance(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if rec == nil || rec.Km != 461 {
			t.Errorf("Distance(%s) = %+v", key, rec)
		}
	}
}

func TestFindManifests(t *testing.T) {
	ctx := context.Background()
	s := New()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	err := s.AddManifests(ctx, []types.HistoricalManifest{
		{ID: "old", OriginCity: "BOGOTA", DestinationCity: "CALI", WeightKg: 9000, AgreedFreight: decimal.NewFromInt(1), IssuedAt: day},
		{ID: "new", OriginCity: "BOGOTA", DestinationCity: "CALI", WeightKg: 9000, AgreedFreight: decimal.NewFromInt(1), IssuedAt: day.AddDate(0, 1, 0)},
		{ID: "unpriced", OriginCity: "BOGOTA", DestinationCity: "CALI", WeightKg: 9000, AgreedFreight: decimal.NewFromInt(-5), IssuedAt: day},
		{ID: "light", OriginCity: "BOGOTA", DestinationCity: "CALI", WeightKg: 100, AgreedFreight: decimal.NewFromInt(1), IssuedAt: day},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.FindManifests(ctx, market.Query{OriginCity: "BOGOTA", MinWeightKg: 4000, MaxWeightKg: 16000})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "old" {
		t.Errorf("Expected [new old], got %v", ids(got))
	}
}

func ids(ms []types.HistoricalManifest) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.PutVehicleParams(ctx, types.VehicleClassParams{Class: types.ClassC2, ModelYear: 2020 + i})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = s.LatestVehicleParams(ctx, types.ClassC2)
		}()
	}
	wg.Wait()

	latest, err := s.LatestVehicleParams(ctx, types.ClassC2)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ModelYear != 2027 {
		t.Errorf("Expected model year 2027, got %+v", latest)
	}
}
