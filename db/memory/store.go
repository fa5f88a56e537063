// Package memory is an in-process implementation of the parameter repository,
// the historical dataset and the distance store.
package memory

import (
	"context"
	"sort"
	"sync"

	"freight-rate/core/market"
	"freight-rate/core/types"
)

type vehicleKey struct {
	class types.VehicleClass
	year  int
}

// Store holds every table in maps guarded by one RWMutex
type Store struct {
	mu sync.RWMutex

	economic    map[types.Period]types.EconomicPeriodParams
	vehicles    map[vehicleKey]types.VehicleClassParams
	policies    map[string]types.CommercialPolicy
	terrain     map[types.RouteKey]types.RouteTerrainProfile
	distances   map[types.RouteKey]types.DistanceRecord
	coordinates map[string]types.Coordinates
	manifests   []types.HistoricalManifest
}

// New creates an empty store
func New() *Store {
	return &Store{
		economic:    make(map[types.Period]types.EconomicPeriodParams),
		vehicles:    make(map[vehicleKey]types.VehicleClassParams),
		policies:    make(map[string]types.CommercialPolicy),
		terrain:     make(map[types.RouteKey]types.RouteTerrainProfile),
		distances:   make(map[types.RouteKey]types.DistanceRecord),
		coordinates: make(map[string]types.Coordinates),
	}
}

// PutEconomicParams stores a period snapshot
func (s *Store) PutEconomicParams(_ context.Context, p types.EconomicPeriodParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.economic[p.Period] = p
	return nil
}

// PutVehicleParams stores a (class, year) record
func (s *Store) PutVehicleParams(_ context.Context, p types.VehicleClassParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[vehicleKey{p.Class, p.ModelYear}] = p
	return nil
}

// PutCommercialPolicy stores a policy by ID
func (s *Store) PutCommercialPolicy(_ context.Context, p types.CommercialPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[p.ID] = p
	return nil
}

// PutTerrainProfile stores a profile under its canonical route
func (s *Store) PutTerrainProfile(_ context.Context, p types.RouteTerrainProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Route = types.NewRouteKey(p.Route.A, p.Route.B)
	s.terrain[p.Route] = p
	return nil
}

// PutDistance stores a distance under its canonical route
func (s *Store) PutDistance(_ context.Context, rec types.DistanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Route = types.NewRouteKey(rec.Route.A, rec.Route.B)
	s.distances[rec.Route] = rec
	return nil
}

// PutCoordinates stores the point of a location code
func (s *Store) PutCoordinates(_ context.Context, code string, c types.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coordinates[code] = c
	return nil
}

// AddManifests appends historical manifests
func (s *Store) AddManifests(_ context.Context, ms []types.HistoricalManifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests = append(s.manifests, ms...)
	return nil
}

// EconomicParams implements pricing.Repository
func (s *Store) EconomicParams(_ context.Context, period types.Period) (*types.EconomicPeriodParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.economic[period]; ok {
		return &p, nil
	}
	return nil, nil
}

// LatestEconomicParamsBefore implements pricing.Repository
func (s *Store) LatestEconomicParamsBefore(_ context.Context, period types.Period) (*types.EconomicPeriodParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *types.EconomicPeriodParams
	for k, p := range s.economic {
		if !k.Before(period) {
			continue
		}
		if best == nil || best.Period.Before(k) {
			p := p
			best = &p
		}
	}
	return best, nil
}

// VehicleParams implements pricing.Repository
func (s *Store) VehicleParams(_ context.Context, class types.VehicleClass, year int) (*types.VehicleClassParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.vehicles[vehicleKey{class, year}]; ok {
		return &p, nil
	}
	return nil, nil
}

// LatestVehicleParams implements pricing.Repository
func (s *Store) LatestVehicleParams(_ context.Context, class types.VehicleClass) (*types.VehicleClassParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *types.VehicleClassParams
	for k, p := range s.vehicles {
		if k.class != class {
			continue
		}
		if best == nil || p.ModelYear > best.ModelYear {
			p := p
			best = &p
		}
	}
	return best, nil
}

// CommercialPolicies implements pricing.Repository
func (s *Store) CommercialPolicies(_ context.Context) ([]types.CommercialPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.CommercialPolicy, 0, len(s.policies))
	for _, p := range s.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// TerrainProfile implements pricing.Repository
func (s *Store) TerrainProfile(_ context.Context, route types.RouteKey) (*types.RouteTerrainProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.terrain[types.NewRouteKey(route.A, route.B)]; ok {
		return &p, nil
	}
	return nil, nil
}

// Distance implements distance.Store
func (s *Store) Distance(_ context.Context, route types.RouteKey) (*types.DistanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.distances[types.NewRouteKey(route.A, route.B)]; ok {
		return &rec, nil
	}
	return nil, nil
}

// Coordinates implements distance.Store
func (s *Store) Coordinates(_ context.Context, code string) (*types.Coordinates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.coordinates[code]; ok {
		return &c, nil
	}
	return nil, nil
}

// FindManifests implements market.Dataset
func (s *Store) FindManifests(_ context.Context, q market.Query) ([]types.HistoricalManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.HistoricalManifest
	for _, m := range s.manifests {
		if matches(m, q) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}

func matches(m types.HistoricalManifest, q market.Query) bool {
	switch {
	case !m.AgreedFreight.IsPositive():
		return false
	case m.WeightKg < q.MinWeightKg || m.WeightKg > q.MaxWeightKg:
		return false
	case q.OriginCity != "" && m.OriginCity != q.OriginCity:
		return false
	case q.DestinationCity != "" && m.DestinationCity != q.DestinationCity:
		return false
	case q.OriginDepartment != "" && m.OriginDepartment != q.OriginDepartment:
		return false
	case q.DestinationDepartment != "" && m.DestinationDepartment != q.DestinationDepartment:
		return false
	}
	return true
}

// DepartmentOf implements market.Dataset. The newest manifest naming the city wins.
func (s *Store) DepartmentOf(_ context.Context, city string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		dept   string
		newest types.HistoricalManifest
		found  bool
	)
	for _, m := range s.manifests {
		var d string
		switch city {
		case m.OriginCity:
			d = m.OriginDepartment
		case m.DestinationCity:
			d = m.DestinationDepartment
		default:
			continue
		}
		if d == "" {
			continue
		}
		if !found || m.IssuedAt.After(newest.IssuedAt) {
			dept, newest, found = d, m, true
		}
	}
	return dept, nil
}
