package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"freight-rate/core/market"
	"freight-rate/core/types"
)

// Set FREIGHT_TEST_PG_DSN to run against a disposable database.
func openTestDataset(t *testing.T) *Dataset {
	t.Helper()
	dsn := os.Getenv("FREIGHT_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("FREIGHT_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	d, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(d.Close)
	if err := d.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := d.pool.Exec(ctx, `DELETE FROM freight_manifests WHERE id LIKE 'test-%'`); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Error("Expected an error for an empty DSN")
	}
}

func TestDataset(t *testing.T) {
	d := openTestDataset(t)
	ctx := context.Background()

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	ms := []types.HistoricalManifest{
		{ID: "test-1", OriginCity: "ZZ-ORIGIN", OriginDepartment: "ZZ-DEPT-A", DestinationCity: "ZZ-DEST", DestinationDepartment: "ZZ-DEPT-B",
			WeightKg: 10000, AgreedFreight: decimal.RequireFromString("2000000.25"), NetFreight: decimal.NewFromInt(1900000), IssuedAt: day},
		{ID: "test-2", OriginCity: "ZZ-ORIGIN", OriginDepartment: "ZZ-DEPT-A", DestinationCity: "ZZ-DEST", DestinationDepartment: "ZZ-DEPT-B",
			WeightKg: 11000, AgreedFreight: decimal.NewFromInt(2100000), NetFreight: decimal.NewFromInt(2000000), IssuedAt: day.AddDate(0, 0, 1)},
		{ID: "test-3", OriginCity: "ZZ-ORIGIN", OriginDepartment: "ZZ-DEPT-A", DestinationCity: "ZZ-DEST", DestinationDepartment: "ZZ-DEPT-B",
			WeightKg: 11000, AgreedFreight: decimal.Zero, NetFreight: decimal.Zero, IssuedAt: day.AddDate(0, 0, 2)},
	}
	if err := d.AddManifests(ctx, ms); err != nil {
		t.Fatal(err)
	}
	// upsert keeps one row per id
	if err := d.AddManifests(ctx, ms[:1]); err != nil {
		t.Fatal(err)
	}

	got, err := d.FindManifests(ctx, market.Query{OriginCity: "ZZ-ORIGIN", DestinationCity: "ZZ-DEST", MinWeightKg: 4000, MaxWeightKg: 16000})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "test-2" {
		t.Fatalf("Expected [test-2 test-1], got %+v", got)
	}
	if !got[1].AgreedFreight.Equal(decimal.RequireFromString("2000000.25")) {
		t.Errorf("Expected exact numeric round trip, got %s", got[1].AgreedFreight)
	}

	dept, err := d.DepartmentOf(ctx, "ZZ-DEST")
	if err != nil {
		t.Fatal(err)
	}
	if dept != "ZZ-DEPT-B" {
		t.Errorf("Expected ZZ-DEPT-B, got %q", dept)
	}
}
