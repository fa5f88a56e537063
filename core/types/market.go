// Package types - market reference results
package types

import "github.com/shopspring/decimal"

// Confidence is a coarse trust label for a market estimate
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// MatchTier is the fallback tier a market estimate was built from
type MatchTier int

const (
	TierExactRoute MatchTier = 1
	TierDepartment MatchTier = 2
	TierNational   MatchTier = 3
)

// String returns the tier name
func (t MatchTier) String() string {
	switch t {
	case TierExactRoute:
		return "exact_route"
	case TierDepartment:
		return "department_corridor"
	case TierNational:
		return "national_band"
	default:
		return "unknown"
	}
}

// MarketReferenceResult summarizes comparable historical manifests
type MarketReferenceResult struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	WeightKg    float64 `json:"weight_kg"`

	PointEstimate decimal.Decimal `json:"point_estimate"`
	Median        decimal.Decimal `json:"median"`
	Mean          decimal.Decimal `json:"mean"`
	Min           decimal.Decimal `json:"min"`
	Max           decimal.Decimal `json:"max"`
	P25           decimal.Decimal `json:"p25"`
	P75           decimal.Decimal `json:"p75"`
	CostPerKg     decimal.Decimal `json:"cost_per_kg"`
	MeanWeightKg  float64         `json:"mean_weight_kg"`

	Confidence Confidence `json:"confidence"`
	Tier       MatchTier  `json:"tier"`
	SampleSize int        `json:"sample_size"`

	OriginDepartment      string `json:"origin_department,omitempty"`
	DestinationDepartment string `json:"destination_department,omitempty"`

	Samples []HistoricalManifest `json:"samples"`
}
