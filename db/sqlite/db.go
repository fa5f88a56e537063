// Package sqlite stores parameters, distances, historical manifests and the
// quotation log in a SQLite file.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"freight-rate/internal/logging"
)

const timeLayout = time.RFC3339

// DB wraps a SQLite database connection.
type DB struct {
	sql    *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB, logger: logging.Named("store.sqlite")}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	d.logger.Debug("opened", zap.String("path", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	// A fresh file has no schema_version table; the error leaves version at 0.
	_ = d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS economic_params (
				period                TEXT PRIMARY KEY,
				fuel_price_per_gallon TEXT NOT NULL,
				minimum_wage          TEXT NOT NULL,
				monthly_interest_rate TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS vehicle_params (
				class      TEXT NOT NULL,
				model_year INTEGER NOT NULL,
				data       TEXT NOT NULL,
				PRIMARY KEY (class, model_year)
			);

			CREATE TABLE IF NOT EXISTS commercial_policies (
				id                 TEXT PRIMARY KEY,
				margin_pct         TEXT NOT NULL,
				rounding_increment TEXT NOT NULL,
				validity_hours     INTEGER NOT NULL,
				active             INTEGER NOT NULL,
				effective_from     TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS terrain_profiles (
				loc_a       TEXT NOT NULL,
				loc_b       TEXT NOT NULL,
				flat        REAL NOT NULL,
				hilly       REAL NOT NULL,
				mountainous REAL NOT NULL,
				toll_light  TEXT NOT NULL,
				toll_heavy  TEXT NOT NULL,
				PRIMARY KEY (loc_a, loc_b)
			);

			CREATE TABLE IF NOT EXISTS distances (
				loc_a     TEXT NOT NULL,
				loc_b     TEXT NOT NULL,
				km        REAL NOT NULL,
				validated INTEGER NOT NULL,
				PRIMARY KEY (loc_a, loc_b)
			);

			CREATE TABLE IF NOT EXISTS coordinates (
				code TEXT PRIMARY KEY,
				lat  REAL NOT NULL,
				lng  REAL NOT NULL
			);

			CREATE TABLE IF NOT EXISTS manifests (
				id                     TEXT PRIMARY KEY,
				origin_city            TEXT NOT NULL,
				origin_department      TEXT NOT NULL,
				destination_city       TEXT NOT NULL,
				destination_department TEXT NOT NULL,
				weight_kg              REAL NOT NULL,
				agreed_freight         TEXT NOT NULL,
				net_freight            TEXT NOT NULL,
				issued_at              TEXT NOT NULL,
				plate                  TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_manifests_route ON manifests(origin_city, destination_city);
			CREATE INDEX IF NOT EXISTS idx_manifests_dept ON manifests(origin_department, destination_department);
			CREATE INDEX IF NOT EXISTS idx_manifests_weight ON manifests(weight_kg);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		d.logger.Info("applied migration v1")
	}

	if version < 2 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS quotations (
				id              TEXT PRIMARY KEY,
				created_at      TEXT NOT NULL,
				origin          TEXT NOT NULL,
				destination     TEXT NOT NULL,
				vehicle_class   TEXT NOT NULL,
				floor_price     TEXT NOT NULL,
				suggested_price TEXT NOT NULL,
				result          TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_quotations_created ON quotations(created_at);

			INSERT OR IGNORE INTO schema_version (version) VALUES (2);
		`)
		if err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
		d.logger.Info("applied migration v2")
	}

	if version < 3 {
		_, err := d.sql.Exec(`
			ALTER TABLE quotations ADD COLUMN fingerprint TEXT NOT NULL DEFAULT '';
			CREATE INDEX IF NOT EXISTS idx_quotations_fingerprint ON quotations(fingerprint);

			INSERT OR IGNORE INTO schema_version (version) VALUES (3);
		`)
		if err != nil {
			return fmt.Errorf("migration v3: %w", err)
		}
		d.logger.Info("applied migration v3")
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
