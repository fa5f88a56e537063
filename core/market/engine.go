// Package market estimates a market freight rate from historical manifests
// with a three-tier fallback: exact route, department corridor, national band.
package market

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"freight-rate/core/normalize"
	"freight-rate/core/types"
	ferrors "freight-rate/internal/errors"
	"freight-rate/internal/logging"
)

const (
	// MinSample is the smallest sample tiers 1 and 2 accept
	MinSample = 3

	// HighConfidenceSample lifts confidence one level
	HighConfidenceSample = 10

	// BandLow and BandHigh bound comparable weights relative to the query
	BandLow  = 0.4
	BandHigh = 1.6
)

// Query filters the historical dataset. Empty strings do not filter.
// Only manifests with a positive agreed freight ever match.
type Query struct {
	OriginCity            string
	DestinationCity       string
	OriginDepartment      string
	DestinationDepartment string
	MinWeightKg           float64
	MaxWeightKg           float64
}

// Dataset is the external historical-manifest collaborator
type Dataset interface {
	// FindManifests returns matches ordered by issue date, newest first
	FindManifests(ctx context.Context, q Query) ([]types.HistoricalManifest, error)

	// DepartmentOf returns the department of any manifest referencing city, or ""
	DepartmentOf(ctx context.Context, city string) (string, error)
}

// WeightBand returns the inclusive comparable-weight window
func WeightBand(weightKg float64) (float64, float64) {
	return weightKg * BandLow, weightKg * BandHigh
}

// Engine runs the tiered market reference
type Engine struct {
	dataset Dataset
	logger  *zap.Logger
}

// NewEngine creates an engine over a dataset
func NewEngine(dataset Dataset) *Engine {
	return &Engine{dataset: dataset, logger: logging.Named("market")}
}

// Reference returns the market reference for a route and weight, or nil when
// the dataset holds nothing comparable. A nil result is not an error.
func (e *Engine) Reference(ctx context.Context, originName, destinationName string, weightKg float64) (*types.MarketReferenceResult, error) {
	if weightKg <= 0 {
		return nil, ferrors.Input("weight must be positive")
	}
	origin := normalize.City(originName)
	destination := normalize.City(destinationName)
	lo, hi := WeightBand(weightKg)

	result := &types.MarketReferenceResult{
		Origin:      origin,
		Destination: destination,
		WeightKg:    weightKg,
	}

	samples, tier, err := e.match(ctx, origin, destination, lo, hi, result)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		e.logger.Debug("no comparable manifests",
			zap.String("origin", origin), zap.String("destination", destination), zap.Float64("weight_kg", weightKg))
		return nil, nil
	}

	stats := Summarize(samples, weightKg)
	result.PointEstimate = stats.PointEstimate.Round(0)
	result.Median = stats.Median.Round(2)
	result.Mean = stats.Mean.Round(2)
	result.Min = stats.Min
	result.Max = stats.Max
	result.P25 = stats.P25
	result.P75 = stats.P75
	result.CostPerKg = stats.CostPerKg.Round(2)
	result.MeanWeightKg = stats.MeanWeightKg
	result.Tier = tier
	result.SampleSize = len(samples)
	result.Confidence = Score(tier, len(samples))
	result.Samples = samples

	e.logger.Debug("market reference",
		zap.String("origin", origin), zap.String("destination", destination),
		zap.Int("tier", int(tier)), zap.Int("samples", len(samples)),
		zap.String("confidence", string(result.Confidence)))
	return result, nil
}

// match walks the tiers in order. Each tier depends on the previous count.
func (e *Engine) match(ctx context.Context, origin, destination string, lo, hi float64, result *types.MarketReferenceResult) ([]types.HistoricalManifest, types.MatchTier, error) {
	if origin != "" && destination != "" {
		exact, err := e.find(ctx, Query{OriginCity: origin, DestinationCity: destination, MinWeightKg: lo, MaxWeightKg: hi})
		if err != nil {
			return nil, 0, err
		}
		if len(exact) >= MinSample {
			return exact, types.TierExactRoute, nil
		}

		originDept, destDept, err := e.departments(ctx, origin, destination)
		if err != nil {
			return nil, 0, err
		}
		if originDept != "" && destDept != "" {
			corridor, err := e.find(ctx, Query{
				OriginDepartment:      originDept,
				DestinationDepartment: destDept,
				MinWeightKg:           lo,
				MaxWeightKg:           hi,
			})
			if err != nil {
				return nil, 0, err
			}
			if len(corridor) >= MinSample {
				result.OriginDepartment = originDept
				result.DestinationDepartment = destDept
				return corridor, types.TierDepartment, nil
			}
		}
	}

	national, err := e.find(ctx, Query{MinWeightKg: lo, MaxWeightKg: hi})
	if err != nil {
		return nil, 0, err
	}
	return national, types.TierNational, nil
}

// departments resolves both departments concurrently
func (e *Engine) departments(ctx context.Context, origin, destination string) (string, string, error) {
	var originDept, destDept string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := e.dataset.DepartmentOf(gctx, origin)
		originDept = d
		return err
	})
	g.Go(func() error {
		d, err := e.dataset.DepartmentOf(gctx, destination)
		destDept = d
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", ferrors.Storage("department lookup failed", err)
	}
	return originDept, destDept, nil
}

func (e *Engine) find(ctx context.Context, q Query) ([]types.HistoricalManifest, error) {
	rows, err := e.dataset.FindManifests(ctx, q)
	if err != nil {
		return nil, ferrors.Storage("manifest query failed", err)
	}
	return rows, nil
}

// Limit returns at most n samples for display; n <= 0 keeps all
func Limit(r *types.MarketReferenceResult, n int) []types.HistoricalManifest {
	if r == nil {
		return nil
	}
	if n <= 0 || n >= len(r.Samples) {
		return r.Samples
	}
	return r.Samples[:n]
}
