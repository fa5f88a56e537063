package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"freight-rate/core/pricing"
	"freight-rate/core/types"
	ferrors "freight-rate/internal/errors"
	"freight-rate/internal/logging"
)

// Service resolves parameter snapshots and computes quotations
type Service struct {
	repo     pricing.Repository
	defaults pricing.Defaults
	logger   *zap.Logger
}

// NewService creates a quotation service
func NewService(repo pricing.Repository, defaults pricing.Defaults) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		logger:   logging.Named("quotation"),
	}
}

// Quote validates the request, reads the four parameter sets concurrently
// and computes the quotation
func (s *Service) Quote(ctx context.Context, req QuotationRequest) (*types.QuotationResult, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.Snapshot(ctx, req)
	if err != nil {
		s.logFailure(req, err)
		return nil, err
	}

	result, err := ComputeQuotation(req, *snap, s.defaults)
	if err != nil {
		s.logFailure(req, err)
		return nil, err
	}

	s.logger.Info("quotation computed",
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.String("vehicle_class", result.VehicleClass.String()),
		zap.Int("trips_per_month", result.TripsPerMonth),
		zap.String("floor", result.FloorPrice.String()),
		zap.String("suggested", result.SuggestedPrice.String()),
		zap.Bool("economic_fallback", snap.EconomicFallback),
		zap.Bool("vehicle_fallback", snap.VehicleFallback),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// Snapshot resolves economic, vehicle, commercial and terrain parameters.
// The lookups are independent reads and run concurrently.
func (s *Service) Snapshot(ctx context.Context, req QuotationRequest) (*Snapshot, error) {
	class := req.VehicleClass()
	period := types.PeriodOf(req.TargetDate)

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, fallback, err := pricing.ResolveEconomic(gctx, s.repo, period)
		if err != nil {
			return err
		}
		snap.Economic, snap.EconomicFallback = *p, fallback
		return nil
	})
	g.Go(func() error {
		p, fallback, err := pricing.ResolveVehicle(gctx, s.repo, class, req.TargetDate.Year())
		if err != nil {
			return err
		}
		snap.Vehicle, snap.VehicleFallback = *p, fallback
		return nil
	})
	g.Go(func() error {
		p, err := pricing.ResolvePolicy(gctx, s.repo)
		snap.Policy = p
		return err
	})
	g.Go(func() error {
		p, err := pricing.ResolveTerrain(gctx, s.repo, req.Origin, req.Destination)
		snap.Terrain = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Service) logFailure(req QuotationRequest, err error) {
	fields := []zap.Field{
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.Error(err),
	}
	if e, ok := ferrors.As(err); ok && e.Business() {
		s.logger.Warn("quotation rejected", append(fields, zap.String("code", string(e.Type)))...)
		return
	}
	s.logger.Error("quotation failed", fields...)
}
