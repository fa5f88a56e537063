package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
	ferrors "freight-rate/internal/errors"
)

// Regulatory deductions folded into the floor divisor
var (
	CommissionPct     = decimal.RequireFromString("0.08")
	WithholdingPct    = decimal.RequireFromString("0.01")
	LocalTaxPct       = decimal.RequireFromString("0.00966")
	PayrollPct        = decimal.RequireFromString("0.02034")
	AdministrationPct = decimal.RequireFromString("0.05")

	// FloorDivisor = 1 − (commission + withholding + local tax + payroll) = 0.88
	FloorDivisor = decimal.NewFromInt(1).Sub(CommissionPct.Add(WithholdingPct).Add(LocalTaxPct).Add(PayrollPct))
)

// Defaults apply when no commercial policy is active
type Defaults struct {
	MarginPct         decimal.Decimal
	RoundingIncrement decimal.Decimal
	ValidityHours     int
}

// StandardDefaults is 20% margin, 50,000 rounding, 72 h validity
func StandardDefaults() Defaults {
	return Defaults{
		MarginPct:         decimal.RequireFromString("0.20"),
		RoundingIncrement: decimal.NewFromInt(50000),
		ValidityHours:     72,
	}
}

// Terms are the commercial terms a quotation is priced with
type Terms struct {
	MarginPct         decimal.Decimal
	RoundingIncrement decimal.Decimal
	ValidityHours     int
	MarginSource      types.Provenance
}

// ResolveTerms layers request overrides over the active policy over defaults
func ResolveTerms(policy *types.CommercialPolicy, marginOverride, roundingOverride *decimal.Decimal, d Defaults) Terms {
	t := Terms{
		MarginPct:         d.MarginPct,
		RoundingIncrement: d.RoundingIncrement,
		ValidityHours:     d.ValidityHours,
		MarginSource:      types.ProvenanceDefault,
	}
	if policy != nil {
		t.MarginPct = policy.MarginPct
		if policy.RoundingIncrement.IsPositive() {
			t.RoundingIncrement = policy.RoundingIncrement
		}
		if policy.ValidityHours > 0 {
			t.ValidityHours = policy.ValidityHours
		}
		t.MarginSource = types.ProvenancePolicy
	}
	if marginOverride != nil {
		t.MarginPct = *marginOverride
		t.MarginSource = types.ProvenanceOverride
	}
	if roundingOverride != nil {
		t.RoundingIncrement = *roundingOverride
	}
	return t
}

// Price is the priced outcome of a cost breakdown
type Price struct {
	TechnicalBase decimal.Decimal
	Floor         decimal.Decimal
	Suggested     decimal.Decimal
}

// Calculate prices un-rounded cost totals under the given terms
func Calculate(costs types.CostBreakdown, terms Terms) (Price, error) {
	if !terms.RoundingIncrement.IsPositive() {
		return Price{}, ferrors.Input("rounding increment must be positive")
	}
	if terms.MarginPct.IsNegative() {
		return Price{}, ferrors.Input("margin must not be negative")
	}
	base := TechnicalBaseCost(costs)
	floor := Floor(base)
	return Price{
		TechnicalBase: base,
		Floor:         floor,
		Suggested:     Suggest(floor, terms.MarginPct, terms.RoundingIncrement),
	}, nil
}

// TechnicalBaseCost is variable total plus fixed cost per trip
func TechnicalBaseCost(costs types.CostBreakdown) decimal.Decimal {
	return costs.Exact.Variable.Add(costs.Exact.FixedPerTrip)
}

// Floor is (1 + administration) × base ÷ FloorDivisor
func Floor(base decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(AdministrationPct).Mul(base).Div(FloorDivisor)
}

// Suggest applies the margin and rounds half-up to the increment
func Suggest(floor, marginPct, increment decimal.Decimal) decimal.Decimal {
	return RoundToIncrement(floor.Mul(decimal.NewFromInt(1).Add(marginPct)), increment)
}

// RoundToIncrement rounds v half-up to the nearest multiple of increment
func RoundToIncrement(v, increment decimal.Decimal) decimal.Decimal {
	return v.Div(increment).Round(0).Mul(increment)
}

// ValidUntil is the end of the quotation validity window
func ValidUntil(target time.Time, hours int) time.Time {
	return target.Add(time.Duration(hours) * time.Hour)
}
