// Package pricing resolves versioned parameter snapshots and turns accumulated
// costs into the regulated floor and the suggested price.
package pricing

import (
	"context"
	"sort"

	"freight-rate/core/types"
	ferrors "freight-rate/internal/errors"
)

// Repository is the external parameter collaborator. Every lookup returns
// nil, nil when nothing matches.
type Repository interface {
	// EconomicParams returns the snapshot for exactly this period
	EconomicParams(ctx context.Context, period types.Period) (*types.EconomicPeriodParams, error)

	// LatestEconomicParamsBefore returns the most recent snapshot strictly before period
	LatestEconomicParamsBefore(ctx context.Context, period types.Period) (*types.EconomicPeriodParams, error)

	// VehicleParams returns the record for exactly (class, year)
	VehicleParams(ctx context.Context, class types.VehicleClass, year int) (*types.VehicleClassParams, error)

	// LatestVehicleParams returns the record with the highest model year for class
	LatestVehicleParams(ctx context.Context, class types.VehicleClass) (*types.VehicleClassParams, error)

	// CommercialPolicies returns every stored policy
	CommercialPolicies(ctx context.Context) ([]types.CommercialPolicy, error)

	// TerrainProfile returns the profile for an unordered route
	TerrainProfile(ctx context.Context, route types.RouteKey) (*types.RouteTerrainProfile, error)
}

// Strategy is one candidate in an ordered fallback chain
type Strategy[T any] struct {
	Name   string
	Lookup func(ctx context.Context) (*T, error)
}

// Resolve tries strategies in order and returns the first hit with the index
// of the strategy that produced it. A miss everywhere returns nil, -1, nil.
func Resolve[T any](ctx context.Context, chain []Strategy[T]) (*T, int, error) {
	for i, s := range chain {
		v, err := s.Lookup(ctx)
		if err != nil {
			return nil, -1, ferrors.Storage("parameter lookup "+s.Name+" failed", err)
		}
		if v != nil {
			return v, i, nil
		}
	}
	return nil, -1, nil
}

// EconomicChain is exact period, then the most recent earlier period. Never a later one.
func EconomicChain(repo Repository, period types.Period) []Strategy[types.EconomicPeriodParams] {
	return []Strategy[types.EconomicPeriodParams]{
		{Name: "economic.exact", Lookup: func(ctx context.Context) (*types.EconomicPeriodParams, error) {
			return repo.EconomicParams(ctx, period)
		}},
		{Name: "economic.earlier", Lookup: func(ctx context.Context) (*types.EconomicPeriodParams, error) {
			p, err := repo.LatestEconomicParamsBefore(ctx, period)
			if p != nil && !p.Period.Before(period) {
				return nil, err
			}
			return p, err
		}},
	}
}

// VehicleChain is exact (class, year), then the latest year for the class
func VehicleChain(repo Repository, class types.VehicleClass, year int) []Strategy[types.VehicleClassParams] {
	return []Strategy[types.VehicleClassParams]{
		{Name: "vehicle.exact", Lookup: func(ctx context.Context) (*types.VehicleClassParams, error) {
			return repo.VehicleParams(ctx, class, year)
		}},
		{Name: "vehicle.latest", Lookup: func(ctx context.Context) (*types.VehicleClassParams, error) {
			return repo.LatestVehicleParams(ctx, class)
		}},
	}
}

// ResolveEconomic returns the snapshot for period and whether a fallback was used
func ResolveEconomic(ctx context.Context, repo Repository, period types.Period) (*types.EconomicPeriodParams, bool, error) {
	p, idx, err := Resolve(ctx, EconomicChain(repo, period))
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return nil, false, ferrors.EconomicParamsNotFound(period.String())
	}
	return p, idx > 0, nil
}

// ResolveVehicle returns the record for (class, year) and whether a fallback was used
func ResolveVehicle(ctx context.Context, repo Repository, class types.VehicleClass, year int) (*types.VehicleClassParams, bool, error) {
	p, idx, err := Resolve(ctx, VehicleChain(repo, class, year))
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return nil, false, ferrors.VehicleParamsNotFound(class.String())
	}
	return p, idx > 0, nil
}

// ResolvePolicy returns the active policy or nil when none is configured
func ResolvePolicy(ctx context.Context, repo Repository) (*types.CommercialPolicy, error) {
	all, err := repo.CommercialPolicies(ctx)
	if err != nil {
		return nil, ferrors.Storage("commercial policy lookup failed", err)
	}
	return SelectActivePolicy(all), nil
}

// SelectActivePolicy picks the most recent active policy by effective date.
// Ties break on ID so the pick is stable.
func SelectActivePolicy(policies []types.CommercialPolicy) *types.CommercialPolicy {
	var active []types.CommercialPolicy
	for _, p := range policies {
		if p.Active {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil
	}
	sort.SliceStable(active, func(i, j int) bool {
		if !active[i].EffectiveFrom.Equal(active[j].EffectiveFrom) {
			return active[i].EffectiveFrom.After(active[j].EffectiveFrom)
		}
		return active[i].ID < active[j].ID
	})
	picked := active[0]
	return &picked
}

// ResolveTerrain returns the bidirectional profile for a route, or nil
func ResolveTerrain(ctx context.Context, repo Repository, origin, destination string) (*types.RouteTerrainProfile, error) {
	p, err := repo.TerrainProfile(ctx, types.NewRouteKey(origin, destination))
	if err != nil {
		return nil, ferrors.Storage("terrain profile lookup failed", err)
	}
	return p, nil
}
