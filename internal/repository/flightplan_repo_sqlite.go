package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Domenick1991/flightprofit/internal/domain"
)

const sqliteSelectFlightPlan = `SELECT fp.id, fp.user_id, fp.save_name, fp.created,
	ap.id, ap.uk_airport, a.code, a.name, a.distance_from_lpl, a.distance_from_boh,
	cp.id, c.id, c.type, c.running_cost, c.range_km, c.max_standard_class, c.min_first_class, cp.num_first_class,
	pp.id, pp.standard_class_price, pp.first_class_price, pp.cost_per_seat, pp.running_cost, pp.income, pp.profit
FROM flight_plans fp
JOIN airport_plans ap ON ap.id = fp.airport_plan_id
LEFT JOIN airports a ON a.code = ap.foreign_airport
JOIN aircraft_plans cp ON cp.id = fp.aircraft_plan_id
LEFT JOIN aircraft c ON c.id = cp.aircraft_id
JOIN pricing_plans pp ON pp.id = fp.pricing_plan_id`

type SQLiteFlightPlanRepository struct {
	db *sql.DB
}

func NewSQLiteFlightPlanRepository(db *sql.DB) FlightPlanRepository {
	return &SQLiteFlightPlanRepository{db: db}
}

// Create relies on the single connection from OpenSQLite to keep the count
// and the insert serialised.
func (r *SQLiteFlightPlanRepository) Create(ctx context.Context, plan *domain.FlightPlan, maxPlans int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if maxPlans > 0 {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM flight_plans WHERE user_id=?`, plan.UserID).Scan(&n); err != nil {
			return err
		}
		if n >= maxPlans {
			return ErrPlanLimitReached
		}
	}

	if err := tx.QueryRowContext(ctx, `INSERT INTO airport_plans DEFAULT VALUES RETURNING id`).Scan(&plan.AirportPlan.ID); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx, `INSERT INTO aircraft_plans DEFAULT VALUES RETURNING id`).Scan(&plan.AircraftPlan.ID); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx, `INSERT INTO pricing_plans DEFAULT VALUES RETURNING id`).Scan(&plan.PricingPlan.ID); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx, `INSERT INTO flight_plans (user_id, save_name, created, airport_plan_id, aircraft_plan_id, pricing_plan_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`, plan.UserID, plan.SaveName, plan.Created.UTC(), plan.AirportPlan.ID, plan.AircraftPlan.ID, plan.PricingPlan.ID).
		Scan(&plan.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteFlightPlanRepository) GetByID(ctx context.Context, id int64) (*domain.FlightPlan, error) {
	plan, err := scanFlightPlan(r.db.QueryRowContext(ctx, sqliteSelectFlightPlan+` WHERE fp.id=?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFlightPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (r *SQLiteFlightPlanRepository) ListByUser(ctx context.Context, userID int64) ([]domain.FlightPlan, error) {
	rows, err := r.db.QueryContext(ctx, sqliteSelectFlightPlan+` WHERE fp.user_id=? ORDER BY fp.created DESC, fp.save_name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]domain.FlightPlan, 0)
	for rows.Next() {
		plan, err := scanFlightPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

func (r *SQLiteFlightPlanRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM flight_plans ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteFlightPlanRepository) Save(ctx context.Context, plan *domain.FlightPlan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE flight_plans SET save_name=? WHERE id=?`, plan.SaveName, plan.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrFlightPlanNotFound
	}

	c := columnsOf(plan)
	if _, err := tx.ExecContext(ctx, `UPDATE airport_plans SET uk_airport=?, foreign_airport=?, distance=? WHERE id=?`,
		c.ukAirport, c.foreignAirport, c.distance, plan.AirportPlan.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE aircraft_plans SET aircraft_id=?, num_first_class=?, num_standard_class=? WHERE id=?`,
		c.aircraftID, c.numFirstClass, c.numStandardClass, plan.AircraftPlan.ID); err != nil {
		return err
	}
	pp := plan.PricingPlan
	if _, err := tx.ExecContext(ctx, `UPDATE pricing_plans
		SET standard_class_price=?, first_class_price=?, cost_per_seat=?, running_cost=?, income=?, profit=?
		WHERE id=?`,
		pp.StandardClassPrice, pp.FirstClassPrice, pp.CostPerSeat, pp.RunningCost, pp.Income, pp.Profit, pp.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteFlightPlanRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var airportPlanID, aircraftPlanID, pricingPlanID int64
	if err := tx.QueryRowContext(ctx, `DELETE FROM flight_plans WHERE id=? RETURNING airport_plan_id, aircraft_plan_id, pricing_plan_id`, id).
		Scan(&airportPlanID, &aircraftPlanID, &pricingPlanID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrFlightPlanNotFound
		}
		return err
	}
	for _, stmt := range []struct {
		query string
		id    int64
	}{
		{`DELETE FROM airport_plans WHERE id=?`, airportPlanID},
		{`DELETE FROM aircraft_plans WHERE id=?`, aircraftPlanID},
		{`DELETE FROM pricing_plans WHERE id=?`, pricingPlanID},
	} {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

var _ FlightPlanRepository = (*SQLiteFlightPlanRepository)(nil)
