package manifests

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"freight-rate/core/market"
	"freight-rate/core/types"
	"freight-rate/db/memory"
	ferrors "freight-rate/internal/errors"
)

func TestImport(t *testing.T) {
	f, err := os.Open("testdata/manifests.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	ctx := context.Background()
	store := memory.New()
	report, err := NewImporter(store).WithBatchSize(2).Import(ctx, f)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Imported != 3 || report.Skipped != 2 {
		t.Errorf("Expected 3 imported and 2 skipped, got %d and %d", report.Imported, report.Skipped)
	}
	if len(report.Errors) != 2 || report.Errors[0].Line != 4 || report.Errors[1].Line != 6 {
		t.Errorf("Expected errors on lines 4 and 6, got %v", report.Errors)
	}

	got, err := store.FindManifests(ctx, market.Query{OriginCity: "BOGOTA", DestinationCity: "MEDELLIN", MaxWeightKg: 1e9})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected both Bogota-Medellin rows under one key, got %d", len(got))
	}
	first := got[1]
	if first.ID != "MF-0001" || first.OriginDepartment != "CUNDINAMARCA" || first.DestinationDepartment != "ANTIOQUIA" {
		t.Errorf("Expected normalized keys, got %+v", first)
	}
	if first.Plate != "SXT123" {
		t.Errorf("Expected upper-case plate, got %q", first.Plate)
	}
	if !got[0].AgreedFreight.Equal(decimal.RequireFromString("2380000.5")) || !got[0].NetFreight.IsZero() {
		t.Errorf("Unexpected amounts: %s / %s", got[0].AgreedFreight, got[0].NetFreight)
	}
	if !got[0].IssuedAt.Equal(time.Date(2026, 8, 10, 14, 30, 0, 0, time.UTC)) {
		t.Errorf("Unexpected issue time %s", got[0].IssuedAt)
	}

	dept, err := store.DepartmentOf(ctx, "BOGOTA")
	if err != nil {
		t.Fatal(err)
	}
	if dept != "CUNDINAMARCA" {
		t.Errorf("Expected CUNDINAMARCA, got %q", dept)
	}
}

func TestImportMissingColumn(t *testing.T) {
	src := "id,origin_city,destination_city,weight_kg,issued_at\nX,A,B,1,2026-01-01\n"
	_, err := NewImporter(memory.New()).Import(context.Background(), strings.NewReader(src))
	if !ferrors.IsType(err, ferrors.TypeInput) {
		t.Errorf("Expected input error for missing agreed_freight, got %v", err)
	}
}

func TestImportHeaderIsCaseInsensitive(t *testing.T) {
	src := "\ufeffID,Origin_City,Destination_City,Weight_Kg,Agreed_Freight,Issued_At\nX,Tunja,Duitama,5000,800000,2026-01-01\n"
	report, err := NewImporter(memory.New()).Import(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if report.Imported != 1 {
		t.Errorf("Expected 1 row, got %+v", report)
	}
}

type failingSink struct{}

func (failingSink) AddManifests(context.Context, []types.HistoricalManifest) error {
	return errors.New("database is locked")
}

func TestImportSinkFailure(t *testing.T) {
	src := "id,origin_city,destination_city,weight_kg,agreed_freight,issued_at\nX,A,B,1,2,2026-01-01\n"
	_, err := NewImporter(failingSink{}).Import(context.Background(), strings.NewReader(src))
	if !ferrors.IsType(err, ferrors.TypeStorage) {
		t.Errorf("Expected storage error, got %v", err)
	}
}
