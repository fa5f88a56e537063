// Package cost accumulates the itemized variable and fixed costs of a trip
// from period economic parameters and vehicle class parameters.
package cost

import (
	"fmt"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
	"freight-rate/core/vehicle"
	ferrors "freight-rate/internal/errors"
)

var (
	// ContingencyRate applies to tires, lubricants, filters, wash/grease and maintenance
	ContingencyRate = decimal.RequireFromString("0.075")

	// DriverShiftFactor is the driver salary in minimum wages
	DriverShiftFactor = decimal.RequireFromString("1.5")

	// AlternateDriverFactor is the relief driver share in minimum wages
	AlternateDriverFactor = decimal.RequireFromString("0.25")

	// BenefitsFactor is the statutory load on top of salary
	BenefitsFactor = decimal.RequireFromString("0.52")

	// VehicleTaxRate is the annual tax over vehicle value
	VehicleTaxRate = decimal.RequireFromString("0.005")

	// ParkingNights per month
	ParkingNights = decimal.NewFromInt(30)

	monthsPerYear = decimal.NewFromInt(12)
)

// Input is everything the accumulator needs for one trip
type Input struct {
	Class         types.VehicleClass
	DistanceKm    float64
	Terrain       vehicle.Terrain
	TripsPerMonth int
	Economic      types.EconomicPeriodParams
	Vehicle       types.VehicleClassParams
}

func (in Input) validate() error {
	if in.DistanceKm <= 0 {
		return ferrors.Input("distance must be positive")
	}
	if in.TripsPerMonth <= 0 {
		return ferrors.Input("trips per month must be positive")
	}
	if in.Vehicle.AmortizationMonths <= 0 {
		return ferrors.Input(fmt.Sprintf("vehicle parameters for %s have no amortization term", in.Class))
	}
	for _, g := range []types.TireGroup{in.Vehicle.TractionTires, in.Vehicle.SteeringTires} {
		if g.Quantity > 0 && g.LifeKm <= 0 {
			return ferrors.Input(fmt.Sprintf("vehicle parameters for %s have a tire group without service life", in.Class))
		}
	}
	return nil
}

// Accumulate computes the full breakdown for one trip
func Accumulate(in Input) (types.CostBreakdown, error) {
	if err := in.validate(); err != nil {
		return types.CostBreakdown{}, err
	}

	v := variableCosts(in)
	f := fixedCosts(in.Economic, in.Vehicle)
	trips := decimal.NewFromInt(int64(in.TripsPerMonth))
	perTrip := f.total.Div(trips)

	return types.CostBreakdown{
		Fuel:          v.fuel.Round(0),
		Tolls:         v.tolls.Round(0),
		Tires:         v.tires.Round(0),
		Lubricants:    v.lubricants.Round(0),
		Filters:       v.filters.Round(0),
		WashGrease:    v.washGrease.Round(0),
		Maintenance:   v.maintenance.Round(0),
		Contingency:   v.contingency.Round(0),
		VariableTotal: v.total.Round(0),

		Capital:           f.capital.Round(0),
		Labor:             f.labor.Round(0),
		Insurance:         f.insurance.Round(0),
		VehicleTax:        f.tax.Round(0),
		Parking:           f.parking.Round(0),
		Communications:    f.communications.Round(0),
		Inspection:        f.inspection.Round(0),
		FixedMonthlyTotal: f.total.Round(0),

		TripsPerMonth: in.TripsPerMonth,
		FixedPerTrip:  perTrip.Round(0),

		Exact: types.CostTotals{
			Variable:     v.total,
			FixedMonthly: f.total,
			FixedPerTrip: perTrip,
		},
	}, nil
}
