// Package distance resolves road distances between location codes.
// A precomputed table wins; otherwise a great-circle estimate is scaled by
// a road-circuity factor.
package distance

import (
	"context"
	"math"

	"freight-rate/core/types"
	ferrors "freight-rate/internal/errors"
)

const (
	// CircuityFactor converts great-circle km into road km
	CircuityFactor = 1.4

	earthRadiusKm = 6371.0
)

// Source tags where a distance came from
type Source string

const (
	SourceTable     Source = "table"
	SourceEstimated Source = "estimated"
)

// Store is the external distance collaborator
type Store interface {
	// Distance returns the record for the canonical pair, or nil if absent
	Distance(ctx context.Context, route types.RouteKey) (*types.DistanceRecord, error)

	// Coordinates returns the point for a location code, or nil if unknown
	Coordinates(ctx context.Context, code string) (*types.Coordinates, error)
}

// Result is a resolved distance
type Result struct {
	Km        float64         `json:"distance_km"`
	Source    Source          `json:"source"`
	Validated bool            `json:"validated"`
	Band      Band            `json:"band"`
	Transit   TransitEstimate `json:"transit"`
}

// Resolver resolves distances against a Store
type Resolver struct {
	store Store
}

// NewResolver creates a resolver
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the road distance between a and b. The result does not
// depend on argument order.
func (r *Resolver) Resolve(ctx context.Context, a, b string) (*Result, error) {
	if a == "" || b == "" {
		return nil, ferrors.Input("both location codes are required")
	}
	if a == b {
		return newResult(0, SourceTable, true), nil
	}

	route := types.NewRouteKey(a, b)
	rec, err := r.store.Distance(ctx, route)
	if err != nil {
		return nil, ferrors.Storage("distance lookup failed", err)
	}
	if rec != nil {
		return newResult(rec.Km, SourceTable, rec.Validated), nil
	}

	// Canonical order here too, so the float sum is identical both ways.
	from, err := r.coordinates(ctx, route.A)
	if err != nil {
		return nil, err
	}
	to, err := r.coordinates(ctx, route.B)
	if err != nil {
		return nil, err
	}
	km := Haversine(*from, *to) * CircuityFactor
	return newResult(km, SourceEstimated, false), nil
}

func (r *Resolver) coordinates(ctx context.Context, code string) (*types.Coordinates, error) {
	c, err := r.store.Coordinates(ctx, code)
	if err != nil {
		return nil, ferrors.Storage("coordinate lookup failed", err)
	}
	if c == nil {
		return nil, ferrors.NoCoordinates(code)
	}
	return c, nil
}

func newResult(km float64, src Source, validated bool) *Result {
	band := Classify(km)
	return &Result{
		Km:        km,
		Source:    src,
		Validated: validated,
		Band:      band,
		Transit:   EstimateTransit(km),
	}
}

// Haversine returns the great-circle distance in km
func Haversine(from, to types.Coordinates) float64 {
	lat1 := toRad(from.Lat)
	lat2 := toRad(to.Lat)
	dLat := toRad(to.Lat - from.Lat)
	dLng := toRad(to.Lng - from.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
