package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Domenick1991/flightprofit/internal/domain"
)

type SQLiteCatalogRepository struct {
	db *sql.DB
}

func NewSQLiteCatalogRepository(db *sql.DB) CatalogRepository {
	return &SQLiteCatalogRepository{db: db}
}

func (r *SQLiteCatalogRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT code, name, distance_from_lpl, distance_from_boh FROM airports ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.Code, &a.Name, &a.DistanceFromLPL, &a.DistanceFromBOH); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *SQLiteCatalogRepository) GetAirport(ctx context.Context, code string) (*domain.Airport, error) {
	row := r.db.QueryRowContext(ctx, `SELECT code, name, distance_from_lpl, distance_from_boh FROM airports WHERE code=?`, code)
	var a domain.Airport
	if err := row.Scan(&a.Code, &a.Name, &a.DistanceFromLPL, &a.DistanceFromBOH); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteCatalogRepository) ListAircraft(ctx context.Context) ([]domain.Aircraft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type, running_cost, range_km, max_standard_class, min_first_class FROM aircraft ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aircraft := make([]domain.Aircraft, 0)
	for rows.Next() {
		var a domain.Aircraft
		if err := rows.Scan(&a.ID, &a.Type, &a.RunningCost, &a.Range, &a.MaxStandardClass, &a.MinFirstClass); err != nil {
			return nil, err
		}
		aircraft = append(aircraft, a)
	}
	return aircraft, rows.Err()
}

func (r *SQLiteCatalogRepository) GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, type, running_cost, range_km, max_standard_class, min_first_class FROM aircraft WHERE id=?`, id)
	var a domain.Aircraft
	if err := row.Scan(&a.ID, &a.Type, &a.RunningCost, &a.Range, &a.MaxStandardClass, &a.MinFirstClass); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ CatalogRepository = (*SQLiteCatalogRepository)(nil)
