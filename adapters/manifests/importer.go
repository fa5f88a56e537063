// Package manifests imports historical shipment manifests from CSV exports.
package manifests

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"freight-rate/core/normalize"
	"freight-rate/core/types"
	ferrors "freight-rate/internal/errors"
	"freight-rate/internal/logging"
)

// Sink receives normalized manifests
type Sink interface {
	AddManifests(ctx context.Context, ms []types.HistoricalManifest) error
}

// Required header columns
const (
	ColID                    = "id"
	ColOriginCity            = "origin_city"
	ColOriginDepartment      = "origin_department"
	ColDestinationCity       = "destination_city"
	ColDestinationDepartment = "destination_department"
	ColWeightKg              = "weight_kg"
	ColAgreedFreight         = "agreed_freight"
	ColNetFreight            = "net_freight"
	ColIssuedAt              = "issued_at"
	ColPlate                 = "plate"
)

var requiredColumns = []string{
	ColID, ColOriginCity, ColDestinationCity, ColWeightKg, ColAgreedFreight, ColIssuedAt,
}

// DefaultBatchSize is the number of rows sent to the sink per call
const DefaultBatchSize = 500

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// RowError describes one rejected line
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Report summarizes an import
type Report struct {
	Imported int
	Skipped  int
	Errors   []RowError
}

// Importer reads CSV rows into a Sink
type Importer struct {
	sink      Sink
	batchSize int
	logger    *zap.Logger
}

// NewImporter creates an importer writing to sink
func NewImporter(sink Sink) *Importer {
	return &Importer{
		sink:      sink,
		batchSize: DefaultBatchSize,
		logger:    logging.Named("import.manifests"),
	}
}

// WithBatchSize overrides the batch size
func (im *Importer) WithBatchSize(n int) *Importer {
	if n > 0 {
		im.batchSize = n
	}
	return im
}

// Import reads every row of r. Malformed rows are skipped and reported;
// sink failures abort the import.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ferrors.Wrap(ferrors.TypeInput, "read manifest header", err)
	}
	idx := indexHeader(header)
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, ferrors.Newf(ferrors.TypeInput, "manifest CSV is missing column %q", col)
		}
	}

	report := &Report{}
	batch := make([]types.HistoricalManifest, 0, im.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := im.sink.AddManifests(ctx, batch); err != nil {
			return ferrors.Storage("store manifests", err)
		}
		report.Imported += len(batch)
		batch = batch[:0]
		return nil
	}

	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.reject(line, err)
			continue
		}
		m, err := parseRow(rec, idx)
		if err != nil {
			report.reject(line, err)
			continue
		}
		batch = append(batch, m)
		if len(batch) >= im.batchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}
	if err := flush(); err != nil {
		return report, err
	}

	im.logger.Info("manifests imported",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

func (r *Report) reject(line int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, RowError{Line: line, Err: err})
}

func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func parseRow(rec []string, idx map[string]int) (types.HistoricalManifest, error) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	m := types.HistoricalManifest{
		ID:                    field(ColID),
		OriginCity:            normalize.City(field(ColOriginCity)),
		OriginDepartment:      normalize.Key(field(ColOriginDepartment)),
		DestinationCity:       normalize.City(field(ColDestinationCity)),
		DestinationDepartment: normalize.Key(field(ColDestinationDepartment)),
		Plate:                 strings.ToUpper(field(ColPlate)),
	}
	if m.ID == "" {
		return m, fmt.Errorf("empty id")
	}
	if m.OriginCity == "" || m.DestinationCity == "" {
		return m, fmt.Errorf("manifest %s: origin and destination are required", m.ID)
	}

	weight, err := strconv.ParseFloat(field(ColWeightKg), 64)
	if err != nil {
		return m, fmt.Errorf("manifest %s: weight: %w", m.ID, err)
	}
	m.WeightKg = weight

	if m.AgreedFreight, err = decimal.NewFromString(field(ColAgreedFreight)); err != nil {
		return m, fmt.Errorf("manifest %s: agreed freight: %w", m.ID, err)
	}
	if net := field(ColNetFreight); net != "" {
		if m.NetFreight, err = decimal.NewFromString(net); err != nil {
			return m, fmt.Errorf("manifest %s: net freight: %w", m.ID, err)
		}
	}

	if m.IssuedAt, err = parseTime(field(ColIssuedAt)); err != nil {
		return m, fmt.Errorf("manifest %s: %w", m.ID, err)
	}
	return m, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid issued_at %q", s)
}
