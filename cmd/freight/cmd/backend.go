package cmd

import (
	"context"
	"os"

	"go.uber.org/zap"

	"freight-rate/adapters/catalog"
	"freight-rate/adapters/manifests"
	"freight-rate/core/distance"
	"freight-rate/core/market"
	"freight-rate/core/pricing"
	"freight-rate/db/memory"
	"freight-rate/db/postgres"
	"freight-rate/db/sqlite"
	"freight-rate/internal/config"
	ferrors "freight-rate/internal/errors"
	"freight-rate/internal/logging"
)

// backend bundles the stores a command needs for the configured driver
type backend struct {
	repo      pricing.Repository
	distances distance.Store
	dataset   market.Dataset
	catalog   catalog.Sink
	manifests manifests.Sink

	// quotations is nil for the memory driver
	quotations *sqlite.DB

	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	log := logging.Named("cli")
	log.Debug("opening backend", zap.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.New()
		if cfg.Catalog.Path != "" {
			c, err := catalog.Load(cfg.Catalog.Path)
			if err != nil {
				return nil, err
			}
			if err := c.Apply(ctx, store); err != nil {
				return nil, err
			}
		}
		return &backend{
			repo:      store,
			distances: store,
			dataset:   store,
			catalog:   store,
			manifests: store,
		}, nil

	case config.DriverSQLite, "":
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, ferrors.Storage("open sqlite", err)
		}
		return &backend{
			repo:       db,
			distances:  db,
			dataset:    db,
			catalog:    db,
			manifests:  db,
			quotations: db,
			closers:    []func(){func() { db.Close() }},
		}, nil

	case config.DriverPostgres:
		// Parameters stay in sqlite; manifests come from the operational database.
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, ferrors.Storage("open sqlite", err)
		}
		pg, err := postgres.Open(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			db.Close()
			return nil, ferrors.Storage("open postgres", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			db.Close()
			return nil, ferrors.Storage("ensure postgres schema", err)
		}
		return &backend{
			repo:       db,
			distances:  db,
			dataset:    pg,
			catalog:    db,
			manifests:  pg,
			quotations: db,
			closers:    []func(){func() { db.Close() }, pg.Close},
		}, nil
	}
	return nil, ferrors.Newf(ferrors.TypeConfig, "unknown storage driver %q", cfg.Storage.Driver)
}

// loadManifestFile imports a CSV into the backend; used by the memory driver
// so market queries have data without a database.
func loadManifestFile(ctx context.Context, b *backend, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = manifests.NewImporter(b.manifests).Import(ctx, f)
	return err
}
