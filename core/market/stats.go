package market

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
)

// Stats are descriptive statistics over the agreed freight of a sample
type Stats struct {
	Min, Max, Mean, Median decimal.Decimal
	P25, P75               decimal.Decimal
	MeanWeightKg           float64
	CostPerKg              decimal.Decimal
	PointEstimate          decimal.Decimal
}

// Summarize computes Stats for samples priced at weightKg. Empty samples give zero Stats.
func Summarize(samples []types.HistoricalManifest, weightKg float64) Stats {
	n := len(samples)
	if n == 0 {
		return Stats{}
	}

	values := make([]decimal.Decimal, n)
	sum := decimal.Zero
	var weightSum float64
	for i, m := range samples {
		values[i] = m.AgreedFreight
		sum = sum.Add(m.AgreedFreight)
		weightSum += m.WeightKg
	}
	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })

	count := decimal.NewFromInt(int64(n))
	s := Stats{
		Min:          values[0],
		Max:          values[n-1],
		Mean:         sum.Div(count),
		Median:       Median(values),
		P25:          Percentile(values, 0.25),
		P75:          Percentile(values, 0.75),
		MeanWeightKg: weightSum / float64(n),
	}

	if s.MeanWeightKg > 0 {
		s.CostPerKg = s.Mean.Div(decimal.NewFromFloat(s.MeanWeightKg))
	}
	if s.CostPerKg.IsPositive() {
		s.PointEstimate = s.CostPerKg.Mul(decimal.NewFromFloat(weightKg))
	} else {
		s.PointEstimate = s.Median
	}
	return s
}

// Median of ascending values; even counts average the two middle values
func Median(sorted []decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
}

// Percentile is nearest-rank on ascending values: sorted[floor(n×p)]
func Percentile(sorted []decimal.Decimal, p float64) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	idx := int(math.Floor(float64(n) * p))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// Score maps tier and sample size to a confidence label
func Score(tier types.MatchTier, n int) types.Confidence {
	switch {
	case tier == types.TierExactRoute && n >= HighConfidenceSample:
		return types.ConfidenceHigh
	case tier == types.TierExactRoute && n >= MinSample:
		return types.ConfidenceMedium
	case tier == types.TierDepartment && n >= HighConfidenceSample:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}
