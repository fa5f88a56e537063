package cost

import (
	"github.com/shopspring/decimal"

	"freight-rate/core/types"
)

type fixed struct {
	capital, labor, insurance, tax      decimal.Decimal
	parking, communications, inspection decimal.Decimal
	total                               decimal.Decimal
}

func fixedCosts(e types.EconomicPeriodParams, p types.VehicleClassParams) fixed {
	var f fixed
	f.capital = CapitalPayment(p.VehicleValue, e.MonthlyInterestRate, p.AmortizationMonths)
	f.labor = Labor(e.MinimumWage)
	f.insurance = p.AnnualLiabilityInsurance.Add(p.AnnualComprehensiveInsurance).Div(monthsPerYear)
	f.tax = VehicleTaxRate.Mul(p.VehicleValue).Div(monthsPerYear)
	f.parking = p.ParkingNightlyRate.Mul(ParkingNights)
	f.communications = p.MonthlyCommunications
	f.inspection = p.AnnualInspectionCost.Div(monthsPerYear)

	f.total = f.capital.Add(f.labor).Add(f.insurance).Add(f.tax).
		Add(f.parking).Add(f.communications).Add(f.inspection)
	return f
}

// CapitalPayment is the amortized payment value × i / (1 − (1+i)^-n).
// A zero rate degrades to straight-line value ÷ n.
func CapitalPayment(value, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	if monthlyRate.IsZero() {
		return value.Div(n)
	}
	growth := decimal.NewFromInt(1).Add(monthlyRate).Pow(n)
	discount := decimal.NewFromInt(1).Sub(decimal.NewFromInt(1).Div(growth))
	return value.Mul(monthlyRate).Div(discount)
}

// Labor is the driver plus the alternate-driver share, both loaded with benefits
func Labor(minimumWage decimal.Decimal) decimal.Decimal {
	loaded := minimumWage.Mul(decimal.NewFromInt(1).Add(BenefitsFactor))
	return DriverShiftFactor.Mul(loaded).Add(AlternateDriverFactor.Mul(loaded))
}
