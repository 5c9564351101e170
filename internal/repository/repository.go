package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightprofit/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by catalog lookups that match no row.
	ErrNotFound = errors.New("not found")

	// ErrPlanLimitReached is returned by Create when the user already keeps
	// the maximum number of plans.
	ErrPlanLimitReached = errors.New("flight plan limit reached")
)

type CatalogRepository interface {
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	GetAirport(ctx context.Context, code string) (*domain.Airport, error)
	ListAircraft(ctx context.Context) ([]domain.Aircraft, error)
	GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error)
}

// FlightPlanRepository stores a flight plan as four rows. Create, Save and
// Delete touch all of them in a single transaction.
type FlightPlanRepository interface {
	// Create counts the user's plans in the same transaction as the insert.
	// maxPlans <= 0 means no limit.
	Create(ctx context.Context, plan *domain.FlightPlan, maxPlans int) error
	GetByID(ctx context.Context, id int64) (*domain.FlightPlan, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.FlightPlan, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Save(ctx context.Context, plan *domain.FlightPlan) error
	Delete(ctx context.Context, id int64) error
}

type rowScanner interface {
	Scan(dest ...any) error
}

// flightPlanRow mirrors the joined select over the four plan tables and
// the two catalog tables. Catalog columns are nullable because of the
// left joins.
type flightPlanRow struct {
	plan      domain.FlightPlan
	ukAirport string

	airportCode *string
	airportName *string
	distLPL     *int
	distBOH     *int

	aircraftID    *int64
	aircraftType  *string
	runningCost   decimal.NullDecimal
	rangeKm       *int
	maxStandard   *int
	minFirstClass *int
	numFirstClass *int
}

func scanFlightPlan(row rowScanner) (*domain.FlightPlan, error) {
	var r flightPlanRow
	p := &r.plan
	err := row.Scan(
		&p.ID, &p.UserID, &p.SaveName, &p.Created,
		&p.AirportPlan.ID, &r.ukAirport, &r.airportCode, &r.airportName, &r.distLPL, &r.distBOH,
		&p.AircraftPlan.ID, &r.aircraftID, &r.aircraftType, &r.runningCost, &r.rangeKm, &r.maxStandard, &r.minFirstClass, &r.numFirstClass,
		&p.PricingPlan.ID, &p.PricingPlan.StandardClassPrice, &p.PricingPlan.FirstClassPrice,
		&p.PricingPlan.CostPerSeat, &p.PricingPlan.RunningCost, &p.PricingPlan.Income, &p.PricingPlan.Profit,
	)
	if err != nil {
		return nil, err
	}

	p.AirportPlan.UKAirport = domain.UKAirport(r.ukAirport)
	if r.airportCode != nil {
		p.AirportPlan.ForeignAirport = &domain.Airport{
			Code:            *r.airportCode,
			Name:            deref(r.airportName),
			DistanceFromLPL: deref(r.distLPL),
			DistanceFromBOH: deref(r.distBOH),
		}
	}
	if r.aircraftID != nil {
		p.AircraftPlan.Aircraft = &domain.Aircraft{
			ID:               *r.aircraftID,
			Type:             deref(r.aircraftType),
			RunningCost:      r.runningCost.Decimal,
			Range:            deref(r.rangeKm),
			MaxStandardClass: deref(r.maxStandard),
			MinFirstClass:    deref(r.minFirstClass),
		}
	}
	p.AircraftPlan.NumFirstClass = r.numFirstClass
	return p, nil
}

// planColumns are the values written for the sub-plan rows. Distance and
// the standard class count are stored for reporting but are re-derived
// from the catalog when a plan is loaded.
type planColumns struct {
	ukAirport        string
	foreignAirport   *string
	distance         *int
	aircraftID       *int64
	numFirstClass    *int
	numStandardClass *int
}

func columnsOf(plan *domain.FlightPlan) planColumns {
	c := planColumns{
		ukAirport:     string(plan.AirportPlan.UKAirport),
		numFirstClass: plan.AircraftPlan.NumFirstClass,
	}
	if a := plan.AirportPlan.ForeignAirport; a != nil {
		code := a.Code
		c.foreignAirport = &code
	}
	if d, ok := plan.AirportPlan.Distance(); ok {
		c.distance = &d
	}
	if a := plan.AircraftPlan.Aircraft; a != nil {
		id := a.ID
		c.aircraftID = &id
	}
	if n, ok := plan.AircraftPlan.NumStandardClass(); ok {
		c.numStandardClass = &n
	}
	return c
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
