// Package postgres reads historical manifests from the operational Postgres
// database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"freight-rate/core/market"
	"freight-rate/core/types"
)

// Schema is the table the dataset reads; callers own migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS freight_manifests (
	id                     TEXT PRIMARY KEY,
	origin_city            TEXT NOT NULL,
	origin_department      TEXT NOT NULL,
	destination_city       TEXT NOT NULL,
	destination_department TEXT NOT NULL,
	weight_kg              DOUBLE PRECISION NOT NULL,
	agreed_freight         NUMERIC NOT NULL,
	net_freight            NUMERIC NOT NULL,
	issued_at              TIMESTAMPTZ NOT NULL,
	plate                  TEXT
);
CREATE INDEX IF NOT EXISTS idx_freight_manifests_route ON freight_manifests(origin_city, destination_city);
CREATE INDEX IF NOT EXISTS idx_freight_manifests_dept ON freight_manifests(origin_department, destination_department);
`

// Dataset implements market.Dataset over a pgx pool
type Dataset struct {
	pool *pgxpool.Pool
}

// Open parses dsn and connects a pool
func Open(ctx context.Context, dsn string) (*Dataset, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN is empty")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Dataset{pool: pool}, nil
}

// Close closes the pool
func (d *Dataset) Close() {
	d.pool.Close()
}

// EnsureSchema creates the manifests table if missing
func (d *Dataset) EnsureSchema(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, Schema)
	return err
}

// AddManifests upserts manifests in one batch
func (d *Dataset) AddManifests(ctx context.Context, ms []types.HistoricalManifest) error {
	batch := &pgx.Batch{}
	for _, m := range ms {
		batch.Queue(`
			INSERT INTO freight_manifests (id, origin_city, origin_department, destination_city, destination_department,
				weight_kg, agreed_freight, net_freight, issued_at, plate)
			VALUES ($1,$2,$3,$4,$5,$6,$7::text::numeric,$8::text::numeric,$9,$10)
			ON CONFLICT (id) DO UPDATE SET
				origin_city = EXCLUDED.origin_city,
				origin_department = EXCLUDED.origin_department,
				destination_city = EXCLUDED.destination_city,
				destination_department = EXCLUDED.destination_department,
				weight_kg = EXCLUDED.weight_kg,
				agreed_freight = EXCLUDED.agreed_freight,
				net_freight = EXCLUDED.net_freight,
				issued_at = EXCLUDED.issued_at,
				plate = EXCLUDED.plate`,
			m.ID, m.OriginCity, m.OriginDepartment, m.DestinationCity, m.DestinationDepartment,
			m.WeightKg, m.AgreedFreight.String(), m.NetFreight.String(), m.IssuedAt, m.Plate)
	}
	return d.pool.SendBatch(ctx, batch).Close()
}

// FindManifests implements market.Dataset
func (d *Dataset) FindManifests(ctx context.Context, q market.Query) ([]types.HistoricalManifest, error) {
	where := []string{"weight_kg BETWEEN $1 AND $2", "agreed_freight > 0"}
	args := []interface{}{q.MinWeightKg, q.MaxWeightKg}
	for _, f := range []struct {
		col, val string
	}{
		{"origin_city", q.OriginCity},
		{"destination_city", q.DestinationCity},
		{"origin_department", q.OriginDepartment},
		{"destination_department", q.DestinationDepartment},
	} {
		if f.val != "" {
			args = append(args, f.val)
			where = append(where, fmt.Sprintf("%s = $%d", f.col, len(args)))
		}
	}

	rows, err := d.pool.Query(ctx, `
		SELECT id, origin_city, origin_department, destination_city, destination_department,
			weight_kg, agreed_freight::text, net_freight::text, issued_at, COALESCE(plate, '')
		FROM freight_manifests
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY issued_at DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query manifests: %w", err)
	}
	defer rows.Close()

	var out []types.HistoricalManifest
	for rows.Next() {
		var (
			m           types.HistoricalManifest
			agreed, net string
		)
		if err := rows.Scan(&m.ID, &m.OriginCity, &m.OriginDepartment, &m.DestinationCity, &m.DestinationDepartment,
			&m.WeightKg, &agreed, &net, &m.IssuedAt, &m.Plate); err != nil {
			return nil, err
		}
		if m.AgreedFreight, err = decimal.NewFromString(agreed); err != nil {
			return nil, fmt.Errorf("manifest %s agreed freight: %w", m.ID, err)
		}
		if m.NetFreight, err = decimal.NewFromString(net); err != nil {
			return nil, fmt.Errorf("manifest %s net freight: %w", m.ID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DepartmentOf implements market.Dataset
func (d *Dataset) DepartmentOf(ctx context.Context, city string) (string, error) {
	var dept string
	err := d.pool.QueryRow(ctx, `
		SELECT dept FROM (
			SELECT origin_department AS dept, issued_at FROM freight_manifests
			WHERE origin_city = $1 AND origin_department <> ''
			UNION ALL
			SELECT destination_department AS dept, issued_at FROM freight_manifests
			WHERE destination_city = $1 AND destination_department <> ''
		) d ORDER BY issued_at DESC LIMIT 1`, city).Scan(&dept)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return dept, err
}
