package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"freight-rate/core/determinism"
	"freight-rate/core/types"
)

// SavedQuotation is a logged quotation. Fingerprint is the content hash of
// Result; re-quoting the same shipment against the same snapshot repeats it.
type SavedQuotation struct {
	ID          string                `json:"id"`
	CreatedAt   time.Time             `json:"created_at"`
	Fingerprint string                `json:"fingerprint"`
	Result      types.QuotationResult `json:"result"`
}

// SaveQuotation logs a result under a new ID
func (d *DB) SaveQuotation(ctx context.Context, r *types.QuotationResult) (*SavedQuotation, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal quotation: %w", err)
	}
	saved := &SavedQuotation{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		Fingerprint: determinism.ComputeHash(data).Hex(),
		Result:      *r,
	}
	_, err = d.sql.ExecContext(ctx,
		`INSERT INTO quotations (id, created_at, origin, destination, vehicle_class, floor_price, suggested_price, result, fingerprint)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		saved.ID, formatTime(saved.CreatedAt), r.Origin, r.Destination, string(r.VehicleClass),
		r.FloorPrice.String(), r.SuggestedPrice.String(), string(data), saved.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("insert quotation: %w", err)
	}
	return saved, nil
}

// GetQuotation loads a logged quotation, or nil if the ID is unknown
func (d *DB) GetQuotation(ctx context.Context, id string) (*SavedQuotation, error) {
	var created, fingerprint, data string
	err := d.sql.QueryRowContext(ctx,
		`SELECT created_at, fingerprint, result FROM quotations WHERE id = ?`, id).Scan(&created, &fingerprint, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	saved := &SavedQuotation{ID: id, CreatedAt: parseTime(created), Fingerprint: fingerprint}
	if err := json.Unmarshal([]byte(data), &saved.Result); err != nil {
		return nil, fmt.Errorf("unmarshal quotation %s: %w", id, err)
	}
	return saved, nil
}

// FindByFingerprint returns the IDs of earlier quotations with identical
// results, oldest first
func (d *DB) FindByFingerprint(ctx context.Context, fingerprint string) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id FROM quotations WHERE fingerprint = ? ORDER BY created_at, id`, fingerprint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
