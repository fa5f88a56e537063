package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"freight-rate/core/market"
	"freight-rate/core/types"
)

// AddManifests inserts manifests in one transaction
func (d *DB) AddManifests(ctx context.Context, ms []types.HistoricalManifest) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO manifests (id, origin_city, origin_department, destination_city, destination_department,
		 weight_kg, agreed_freight, net_freight, issued_at, plate) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range ms {
		if _, err := stmt.ExecContext(ctx, m.ID, m.OriginCity, m.OriginDepartment, m.DestinationCity,
			m.DestinationDepartment, m.WeightKg, m.AgreedFreight.String(), m.NetFreight.String(),
			formatTime(m.IssuedAt), m.Plate); err != nil {
			return fmt.Errorf("insert manifest %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// FindManifests implements market.Dataset
func (d *DB) FindManifests(ctx context.Context, q market.Query) ([]types.HistoricalManifest, error) {
	where := []string{"weight_kg BETWEEN ? AND ?", "CAST(agreed_freight AS REAL) > 0"}
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
			where = append(where, f.col+" = ?")
			args = append(args, f.val)
		}
	}

	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, origin_city, origin_department, destination_city, destination_department,
		 weight_kg, agreed_freight, net_freight, issued_at, COALESCE(plate, '')
		 FROM manifests WHERE `+strings.Join(where, " AND ")+` ORDER BY issued_at DESC, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.HistoricalManifest
	for rows.Next() {
		m, err := scanManifest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanManifest(rows *sql.Rows) (types.HistoricalManifest, error) {
	var (
		m           types.HistoricalManifest
		agreed, net string
		issued      string
	)
	if err := rows.Scan(&m.ID, &m.OriginCity, &m.OriginDepartment, &m.DestinationCity, &m.DestinationDepartment,
		&m.WeightKg, &agreed, &net, &issued, &m.Plate); err != nil {
		return m, err
	}
	var err error
	if m.AgreedFreight, err = decimal.NewFromString(agreed); err != nil {
		return m, fmt.Errorf("manifest %s agreed freight: %w", m.ID, err)
	}
	if m.NetFreight, err = decimal.NewFromString(net); err != nil {
		return m, fmt.Errorf("manifest %s net freight: %w", m.ID, err)
	}
	m.IssuedAt = parseTime(issued)
	return m, nil
}

// DepartmentOf implements market.Dataset. The newest manifest naming the city wins.
func (d *DB) DepartmentOf(ctx context.Context, city string) (string, error) {
	var dept string
	err := d.sql.QueryRowContext(ctx, `
		SELECT dept FROM (
			SELECT origin_department AS dept, issued_at FROM manifests WHERE origin_city = ? AND origin_department <> ''
			UNION ALL
			SELECT destination_department AS dept, issued_at FROM manifests WHERE destination_city = ? AND destination_department <> ''
		) ORDER BY issued_at DESC LIMIT 1`, city, city).Scan(&dept)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return dept, err
}
