package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
)

// PutEconomicParams upserts a period snapshot
func (d *DB) PutEconomicParams(ctx context.Context, p types.EconomicPeriodParams) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT OR REPLACE INTO economic_params (period, fuel_price_per_gallon, minimum_wage, monthly_interest_rate)
		 VALUES (?,?,?,?)`,
		p.Period.String(), p.FuelPricePerGallon.String(), p.MinimumWage.String(), p.MonthlyInterestRate.String(),
	)
	return err
}

// EconomicParams implements pricing.Repository
func (d *DB) EconomicParams(ctx context.Context, period types.Period) (*types.EconomicPeriodParams, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT period, fuel_price_per_gallon, minimum_wage, monthly_interest_rate
		 FROM economic_params WHERE period = ?`, period.String())
	return scanEconomic(row)
}

// LatestEconomicParamsBefore implements pricing.Repository.
// "YYYY-MM" keys sort lexically in calendar order.
func (d *DB) LatestEconomicParamsBefore(ctx context.Context, period types.Period) (*types.EconomicPeriodParams, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT period, fuel_price_per_gallon, minimum_wage, monthly_interest_rate
		 FROM economic_params WHERE period < ? ORDER BY period DESC LIMIT 1`, period.String())
	return scanEconomic(row)
}

func scanEconomic(row *sql.Row) (*types.EconomicPeriodParams, error) {
	var period, fuel, wage, rate string
	if err := row.Scan(&period, &fuel, &wage, &rate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p, err := types.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	out := &types.EconomicPeriodParams{Period: p}
	if out.FuelPricePerGallon, err = decimal.NewFromString(fuel); err != nil {
		return nil, fmt.Errorf("economic_params %s fuel price: %w", period, err)
	}
	if out.MinimumWage, err = decimal.NewFromString(wage); err != nil {
		return nil, fmt.Errorf("economic_params %s minimum wage: %w", period, err)
	}
	if out.MonthlyInterestRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("economic_params %s interest rate: %w", period, err)
	}
	return out, nil
}

// PutVehicleParams upserts a (class, year) record. The body is kept as JSON.
func (d *DB) PutVehicleParams(ctx context.Context, p types.VehicleClassParams) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal vehicle params: %w", err)
	}
	_, err = d.sql.ExecContext(ctx,
		`INSERT OR REPLACE INTO vehicle_params (class, model_year, data) VALUES (?,?,?)`,
		string(p.Class), p.ModelYear, string(data))
	return err
}

// VehicleParams implements pricing.Repository
func (d *DB) VehicleParams(ctx context.Context, class types.VehicleClass, year int) (*types.VehicleClassParams, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT data FROM vehicle_params WHERE class = ? AND model_year = ?`, string(class), year)
	return scanVehicle(row)
}

// LatestVehicleParams implements pricing.Repository
func (d *DB) LatestVehicleParams(ctx context.Context, class types.VehicleClass) (*types.VehicleClassParams, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT data FROM vehicle_params WHERE class = ? ORDER BY model_year DESC LIMIT 1`, string(class))
	return scanVehicle(row)
}

func scanVehicle(row *sql.Row) (*types.VehicleClassParams, error) {
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var p types.VehicleClassParams
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal vehicle params: %w", err)
	}
	return &p, nil
}

// PutCommercialPolicy upserts a policy
func (d *DB) PutCommercialPolicy(ctx context.Context, p types.CommercialPolicy) error {
	active := 0
	if p.Active {
		active = 1
	}
	_, err := d.sql.ExecContext(ctx,
		`INSERT OR REPLACE INTO commercial_policies (id, margin_pct, rounding_increment, validity_hours, active, effective_from)
		 VALUES (?,?,?,?,?,?)`,
		p.ID, p.MarginPct.String(), p.RoundingIncrement.String(), p.ValidityHours, active, formatTime(p.EffectiveFrom))
	return err
}

// CommercialPolicies implements pricing.Repository
func (d *DB) CommercialPolicies(ctx context.Context) ([]types.CommercialPolicy, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, margin_pct, rounding_increment, validity_hours, active, effective_from
		 FROM commercial_policies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.CommercialPolicy
	for rows.Next() {
		var (
			p                types.CommercialPolicy
			margin, rounding string
			active           int
			effective        string
		)
		if err := rows.Scan(&p.ID, &margin, &rounding, &p.ValidityHours, &active, &effective); err != nil {
			return nil, err
		}
		if p.MarginPct, err = decimal.NewFromString(margin); err != nil {
			return nil, fmt.Errorf("policy %s margin: %w", p.ID, err)
		}
		if p.RoundingIncrement, err = decimal.NewFromString(rounding); err != nil {
			return nil, fmt.Errorf("policy %s rounding: %w", p.ID, err)
		}
		p.Active = active == 1
		p.EffectiveFrom = parseTime(effective)
		out = append(out, p)
	}
	return out, rows.Err()
}

// PutTerrainProfile upserts a profile under its canonical route
func (d *DB) PutTerrainProfile(ctx context.Context, p types.RouteTerrainProfile) error {
	route := types.NewRouteKey(p.Route.A, p.Route.B)
	_, err := d.sql.ExecContext(ctx,
		`INSERT OR REPLACE INTO terrain_profiles (loc_a, loc_b, flat, hilly, mountainous, toll_light, toll_heavy)
		 VALUES (?,?,?,?,?,?,?)`,
		route.A, route.B, p.Split.Flat, p.Split.Hilly, p.Split.Mountainous, p.TollLight.String(), p.TollHeavy.String())
	return err
}

// TerrainProfile implements pricing.Repository
func (d *DB) TerrainProfile(ctx context.Context, route types.RouteKey) (*types.RouteTerrainProfile, error) {
	route = types.NewRouteKey(route.A, route.B)
	var (
		p                    = types.RouteTerrainProfile{Route: route}
		tollLight, tollHeavy string
	)
	err := d.sql.QueryRowContext(ctx,
		`SELECT flat, hilly, mountainous, toll_light, toll_heavy FROM terrain_profiles WHERE loc_a = ? AND loc_b = ?`,
		route.A, route.B).Scan(&p.Split.Flat, &p.Split.Hilly, &p.Split.Mountainous, &tollLight, &tollHeavy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if p.TollLight, err = decimal.NewFromString(tollLight); err != nil {
		return nil, fmt.Errorf("terrain %s toll light: %w", route, err)
	}
	if p.TollHeavy, err = decimal.NewFromString(tollHeavy); err != nil {
		return nil, fmt.Errorf("terrain %s toll heavy: %w", route, err)
	}
	return &p, nil
}

// PutDistance upserts a distance under its canonical route
func (d *DB) PutDistance(ctx context.Context, rec types.DistanceRecord) error {
	route := types.NewRouteKey(rec.Route.A, rec.Route.B)
	validated := 0
	if rec.Validated {
		validated = 1
	}
	_, err := d.sql.ExecContext(ctx,
		`INSERT OR REPLACE INTO distances (loc_a, loc_b, km, validated) VALUES (?,?,?,?)`,
		route.A, route.B, rec.Km, validated)
	return err
}

// Distance implements distance.Store
func (d *DB) Distance(ctx context.Context, route types.RouteKey) (*types.DistanceRecord, error) {
	route = types.NewRouteKey(route.A, route.B)
	rec := types.DistanceRecord{Route: route}
	var validated int
	err := d.sql.QueryRowContext(ctx,
		`SELECT km, validated FROM distances WHERE loc_a = ? AND loc_b = ?`, route.A, route.B).Scan(&rec.Km, &validated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.Validated = validated == 1
	return &rec, nil
}

// PutCoordinates upserts the point of a location code
func (d *DB) PutCoordinates(ctx context.Context, code string, c types.Coordinates) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT OR REPLACE INTO coordinates (code, lat, lng) VALUES (?,?,?)`, code, c.Lat, c.Lng)
	return err
}

// Coordinates implements distance.Store
func (d *DB) Coordinates(ctx context.Context, code string) (*types.Coordinates, error) {
	var c types.Coordinates
	err := d.sql.QueryRowContext(ctx, `SELECT lat, lng FROM coordinates WHERE code = ?`, code).Scan(&c.Lat, &c.Lng)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
