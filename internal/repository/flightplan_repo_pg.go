package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightprofit/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSelectFlightPlan = `SELECT fp.id, fp.user_id, fp.save_name, fp.created,
	ap.id, ap.uk_airport, a.code, a.name, a.distance_from_lpl, a.distance_from_boh,
	cp.id, c.id, c.type, c.running_cost, c.range_km, c.max_standard_class, c.min_first_class, cp.num_first_class,
	pp.id, pp.standard_class_price, pp.first_class_price, pp.cost_per_seat, pp.running_cost, pp.income, pp.profit
FROM flight_plans fp
JOIN airport_plans ap ON ap.id = fp.airport_plan_id
LEFT JOIN airports a ON a.code = ap.foreign_airport
JOIN aircraft_plans cp ON cp.id = fp.aircraft_plan_id
LEFT JOIN aircraft c ON c.id = cp.aircraft_id
JOIN pricing_plans pp ON pp.id = fp.pricing_plan_id`

type PGFlightPlanRepository struct {
	db *pgxpool.Pool
}

func NewFlightPlanRepository(db *pgxpool.Pool) FlightPlanRepository {
	return &PGFlightPlanRepository{db: db}
}

func (r *PGFlightPlanRepository) Create(ctx context.Context, plan *domain.FlightPlan, maxPlans int) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if maxPlans > 0 {
		// Concurrent creates for one user queue on this lock until commit.
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, plan.UserID); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM flight_plans WHERE user_id=$1`, plan.UserID).Scan(&n); err != nil {
			return err
		}
		if n >= maxPlans {
			return ErrPlanLimitReached
		}
	}

	if err := tx.QueryRow(ctx, `INSERT INTO airport_plans DEFAULT VALUES RETURNING id`).Scan(&plan.AirportPlan.ID); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `INSERT INTO aircraft_plans DEFAULT VALUES RETURNING id`).Scan(&plan.AircraftPlan.ID); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `INSERT INTO pricing_plans DEFAULT VALUES RETURNING id`).Scan(&plan.PricingPlan.ID); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `INSERT INTO flight_plans (user_id, save_name, created, airport_plan_id, aircraft_plan_id, pricing_plan_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`, plan.UserID, plan.SaveName, plan.Created, plan.AirportPlan.ID, plan.AircraftPlan.ID, plan.PricingPlan.ID).
		Scan(&plan.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGFlightPlanRepository) GetByID(ctx context.Context, id int64) (*domain.FlightPlan, error) {
	plan, err := scanFlightPlan(r.db.QueryRow(ctx, pgSelectFlightPlan+` WHERE fp.id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (r *PGFlightPlanRepository) ListByUser(ctx context.Context, userID int64) ([]domain.FlightPlan, error) {
	rows, err := r.db.Query(ctx, pgSelectFlightPlan+` WHERE fp.user_id=$1 ORDER BY fp.created DESC, fp.save_name`, userID)
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

func (r *PGFlightPlanRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM flight_plans ORDER BY id`)
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

func (r *PGFlightPlanRepository) Save(ctx context.Context, plan *domain.FlightPlan) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE flight_plans SET save_name=$2 WHERE id=$1`, plan.ID, plan.SaveName)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrFlightPlanNotFound
	}

	c := columnsOf(plan)
	if _, err := tx.Exec(ctx, `UPDATE airport_plans SET uk_airport=$2, foreign_airport=$3, distance=$4 WHERE id=$1`,
		plan.AirportPlan.ID, c.ukAirport, c.foreignAirport, c.distance); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE aircraft_plans SET aircraft_id=$2, num_first_class=$3, num_standard_class=$4 WHERE id=$1`,
		plan.AircraftPlan.ID, c.aircraftID, c.numFirstClass, c.numStandardClass); err != nil {
		return err
	}
	pp := plan.PricingPlan
	if _, err := tx.Exec(ctx, `UPDATE pricing_plans
		SET standard_class_price=$2, first_class_price=$3, cost_per_seat=$4, running_cost=$5, income=$6, profit=$7
		WHERE id=$1`,
		pp.ID, pp.StandardClassPrice, pp.FirstClassPrice, pp.CostPerSeat, pp.RunningCost, pp.Income, pp.Profit); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGFlightPlanRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var airportPlanID, aircraftPlanID, pricingPlanID int64
	if err := tx.QueryRow(ctx, `DELETE FROM flight_plans WHERE id=$1 RETURNING airport_plan_id, aircraft_plan_id, pricing_plan_id`, id).
		Scan(&airportPlanID, &aircraftPlanID, &pricingPlanID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFlightPlanNotFound
		}
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM airport_plans WHERE id=$1`, airportPlanID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM aircraft_plans WHERE id=$1`, aircraftPlanID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM pricing_plans WHERE id=$1`, pricingPlanID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

var _ FlightPlanRepository = (*PGFlightPlanRepository)(nil)
