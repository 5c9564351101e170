package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightprofit/config"
	"github.com/Domenick1991/flightprofit/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage holds the repositories for the configured database driver.
type Storage struct {
	Catalog     repository.CatalogRepository
	FlightPlans repository.FlightPlanRepository
	close       func()
}

func (s *Storage) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

func OpenStorage(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Catalog:     repository.NewSQLiteCatalogRepository(db),
			FlightPlans: repository.NewSQLiteFlightPlanRepository(db),
			close:       func() { _ = db.Close() },
		}, nil
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Storage{
			Catalog:     repository.NewCatalogRepository(pool),
			FlightPlans: repository.NewFlightPlanRepository(pool),
			close:       pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
