package domain

import (
	"github.com/shopspring/decimal"
)

var maxPrice = decimal.NewFromInt(100000)

// AirportPlan is the route half of a flight plan. Distance is never stored
// on the plan itself: it is always read from the foreign airport.
type AirportPlan struct {
	ID             int64
	UKAirport      UKAirport
	ForeignAirport *Airport
}

func (p AirportPlan) DetailsExist() bool {
	return p.UKAirport != UKAirportUnset && p.ForeignAirport != nil
}

func (p AirportPlan) Distance() (int, bool) {
	if !p.DetailsExist() {
		return 0, false
	}
	return p.ForeignAirport.DistanceFrom(p.UKAirport)
}

func (p AirportPlan) touched() bool {
	return p.UKAirport != UKAirportUnset || p.ForeignAirport != nil
}

func (p *AirportPlan) setRoute(uk UKAirport, foreign *Airport) error {
	if !uk.Valid() {
		return newValidationError("uk_airport", "%q is not a UK airport, choose %s or %s", string(uk), UKAirportLiverpool, UKAirportBournemouth)
	}
	if foreign == nil {
		return newValidationError("foreign_airport", "a foreign airport is required")
	}

	airport := *foreign
	p.UKAirport = uk
	p.ForeignAirport = &airport
	return nil
}

type AircraftPlan struct {
	ID            int64
	Aircraft      *Aircraft
	NumFirstClass *int
}

func (p AircraftPlan) DetailsExist() bool {
	return p.Aircraft != nil && p.NumFirstClass != nil
}

// SeatsFit reports whether the stored first class count still suits the
// aircraft as it is now in the catalog.
func (p AircraftPlan) SeatsFit() bool {
	if !p.DetailsExist() {
		return false
	}
	return checkSeats(p.Aircraft, *p.NumFirstClass) == nil
}

// NumStandardClass is unknown while the seat count does not fit the
// aircraft.
func (p AircraftPlan) NumStandardClass() (int, bool) {
	if !p.SeatsFit() {
		return 0, false
	}
	return p.Aircraft.MaxStandardClass - 2*(*p.NumFirstClass), true
}

// InRange reports whether the aircraft can fly the route. known is false
// while either plan is missing details.
func (p AircraftPlan) InRange(route AirportPlan) (inRange, known bool) {
	if !p.DetailsExist() || !route.DetailsExist() {
		return false, false
	}
	distance, _ := route.Distance()
	return p.Aircraft.Range > distance, true
}

func (p AircraftPlan) touched() bool {
	return p.Aircraft != nil || p.NumFirstClass != nil
}

func (p *AircraftPlan) setAircraft(aircraft *Aircraft, numFirstClass int) error {
	if aircraft == nil {
		return newValidationError("aircraft", "an aircraft is required")
	}
	if err := checkSeats(aircraft, numFirstClass); err != nil {
		return err
	}

	selected := *aircraft
	seats := numFirstClass
	p.Aircraft = &selected
	p.NumFirstClass = &seats
	return nil
}

func checkSeats(aircraft *Aircraft, numFirstClass int) error {
	if numFirstClass < 0 {
		return newValidationError("num_first_class", "the number of first class seats must not be negative")
	}
	if numFirstClass < aircraft.MinFirstClass {
		return newValidationError("num_first_class", "the %s needs at least %d first class seats", aircraft.Type, aircraft.MinFirstClass)
	}
	if limit := aircraft.FirstClassLimit(); !decimal.NewFromInt(int64(numFirstClass)).LessThan(limit) {
		return newValidationError("num_first_class", "the number of first class seats is too large - there must be fewer than %s", limit.String())
	}
	return nil
}

// PricingPlan holds the ticket prices and the figures derived from them.
// The derived fields are only valid while the owning flight plan is
// complete.
type PricingPlan struct {
	ID                 int64
	StandardClassPrice decimal.NullDecimal
	FirstClassPrice    decimal.NullDecimal

	CostPerSeat decimal.NullDecimal
	RunningCost decimal.NullDecimal
	Income      decimal.NullDecimal
	Profit      decimal.NullDecimal
}

func (p PricingPlan) DetailsExist() bool {
	return p.StandardClassPrice.Valid && p.FirstClassPrice.Valid
}

func (p PricingPlan) Profitable() (bool, error) {
	if !p.Profit.Valid {
		return false, ErrIncomplete
	}
	return p.Profit.Decimal.IsPositive(), nil
}

func (p PricingPlan) touched() bool {
	return p.StandardClassPrice.Valid || p.FirstClassPrice.Valid
}

func (p *PricingPlan) setPrices(standard, first decimal.Decimal) error {
	if err := validatePrice("standard_class_price", standard); err != nil {
		return err
	}
	if err := validatePrice("first_class_price", first); err != nil {
		return err
	}

	p.StandardClassPrice = decimal.NewNullDecimal(standard)
	p.FirstClassPrice = decimal.NewNullDecimal(first)
	return nil
}

func (p *PricingPlan) apply(figures Figures) {
	p.CostPerSeat = decimal.NewNullDecimal(figures.CostPerSeat)
	p.RunningCost = decimal.NewNullDecimal(figures.RunningCost)
	p.Income = decimal.NewNullDecimal(figures.Income)
	p.Profit = decimal.NewNullDecimal(figures.Profit)
}

func (p *PricingPlan) clearDerived() {
	p.CostPerSeat = decimal.NullDecimal{}
	p.RunningCost = decimal.NullDecimal{}
	p.Income = decimal.NullDecimal{}
	p.Profit = decimal.NullDecimal{}
}

func validatePrice(field string, v decimal.Decimal) error {
	switch {
	case v.IsNegative():
		return newValidationError(field, "price must not be negative")
	case !v.Equal(v.Round(2)):
		return newValidationError(field, "price must have at most 2 decimal places")
	case v.GreaterThanOrEqual(maxPrice):
		return newValidationError(field, "price must be less than %s", maxPrice.String())
	}
	return nil
}
