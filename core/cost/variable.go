package cost

import (
	"github.com/shopspring/decimal"

	"freight-rate/core/types"
	"freight-rate/core/vehicle"
)

type variable struct {
	fuel, tolls, tires              decimal.Decimal
	lubricants, filters, washGrease decimal.Decimal
	maintenance, contingency, total decimal.Decimal
}

func variableCosts(in Input) variable {
	km := decimal.NewFromFloat(in.DistanceKm)
	p := in.Vehicle

	var v variable
	v.fuel = Fuel(in.Class, in.Terrain.Split, in.DistanceKm, in.Economic.FuelPricePerGallon)
	v.tolls = in.Terrain.Tolls
	v.tires = TiresPerKm(p).Mul(km)
	v.lubricants = p.LubricantsPerKm.Mul(km)
	v.filters = p.FiltersPerKm.Mul(km)
	v.washGrease = p.WashGreasePerKm.Mul(km)
	v.maintenance = p.MaintenancePerKm.Mul(km)

	// fuel and tolls stay out of the contingency base
	base := v.tires.Add(v.lubricants).Add(v.filters).Add(v.washGrease).Add(v.maintenance)
	v.contingency = base.Mul(ContingencyRate)

	v.total = v.fuel.Add(v.tolls).Add(base).Add(v.contingency)
	return v
}

// Fuel is Σ (fuel price ÷ km-per-gallon) × segment km
func Fuel(class types.VehicleClass, split types.TerrainSplit, km float64, pricePerGallon decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, seg := range types.Segments {
		eff := vehicle.FuelEfficiency(class, seg)
		share := split.Share(seg)
		if eff <= 0 || share == 0 {
			continue
		}
		segKm := decimal.NewFromFloat(km * share)
		total = total.Add(pricePerGallon.Div(decimal.NewFromFloat(eff)).Mul(segKm))
	}
	return total
}

// TiresPerKm sums unit price × quantity ÷ service life over both axle groups
func TiresPerKm(p types.VehicleClassParams) decimal.Decimal {
	return tireGroupPerKm(p.TractionTires).Add(tireGroupPerKm(p.SteeringTires))
}

func tireGroupPerKm(g types.TireGroup) decimal.Decimal {
	if g.Quantity == 0 || g.LifeKm <= 0 {
		return decimal.Zero
	}
	return g.UnitPrice.Mul(decimal.NewFromInt(int64(g.Quantity))).Div(decimal.NewFromFloat(g.LifeKm))
}
