package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const MaxSaveNameLength = 100

type Status string

const (
	StatusEmpty    Status = "empty"
	StatusPartial  Status = "partial"
	StatusComplete Status = "complete"
)

// FlightPlan owns one plan of each kind. Every edit goes through the
// aggregate so the pricing figures are re-derived before the edit returns.
type FlightPlan struct {
	ID       int64
	UserID   int64
	SaveName string
	Created  time.Time

	AirportPlan  AirportPlan
	AircraftPlan AircraftPlan
	PricingPlan  PricingPlan
}

// Figures are the derived pricing values of a complete flight plan.
type Figures struct {
	CostPerSeat decimal.Decimal
	RunningCost decimal.Decimal
	Income      decimal.Decimal
	Profit      decimal.Decimal
}

func (f Figures) Profitable() bool {
	return f.Profit.IsPositive()
}

// NewFlightPlan builds an empty plan and its three empty sub-plans. Nothing
// is derived until FinalizeCreation.
func NewFlightPlan(userID int64, saveName string, created time.Time) (*FlightPlan, error) {
	name, err := ValidateSaveName(saveName)
	if err != nil {
		return nil, err
	}
	return &FlightPlan{
		UserID:   userID,
		SaveName: name,
		Created:  created,
	}, nil
}

// FinalizeCreation runs the first recompute once all four records exist.
// For a freshly built plan it changes nothing.
func (f *FlightPlan) FinalizeCreation() {
	f.Recompute()
}

func ValidateSaveName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("save_name", "a save name is required")
	}
	if utf8.RuneCountInString(name) > MaxSaveNameLength {
		return "", newValidationError("save_name", "the save name must be at most %d characters", MaxSaveNameLength)
	}
	return name, nil
}

func (f *FlightPlan) Rename(saveName string) error {
	name, err := ValidateSaveName(saveName)
	if err != nil {
		return err
	}
	f.SaveName = name
	return nil
}

func (f *FlightPlan) SetRoute(uk UKAirport, foreign *Airport) error {
	if err := f.AirportPlan.setRoute(uk, foreign); err != nil {
		return err
	}
	f.Recompute()
	return nil
}

func (f *FlightPlan) SetAircraft(aircraft *Aircraft, numFirstClass int) error {
	if err := f.AircraftPlan.setAircraft(aircraft, numFirstClass); err != nil {
		return err
	}
	f.Recompute()
	return nil
}

func (f *FlightPlan) SetPrices(standard, first decimal.Decimal) error {
	if err := f.PricingPlan.setPrices(standard, first); err != nil {
		return err
	}
	f.Recompute()
	return nil
}

func (f *FlightPlan) InRange() (inRange, known bool) {
	return f.AircraftPlan.InRange(f.AirportPlan)
}

// Complete is evaluated from the current sub-plans on every call. A seat
// count that no longer fits a changed aircraft makes the plan incomplete.
func (f *FlightPlan) Complete() bool {
	if !f.AirportPlan.DetailsExist() || !f.AircraftPlan.SeatsFit() {
		return false
	}
	if inRange, _ := f.InRange(); !inRange {
		return false
	}
	return f.PricingPlan.DetailsExist()
}

func (f *FlightPlan) Status() Status {
	switch {
	case f.Complete():
		return StatusComplete
	case f.AirportPlan.touched() || f.AircraftPlan.touched() || f.PricingPlan.touched():
		return StatusPartial
	default:
		return StatusEmpty
	}
}

// Recompute re-derives the pricing figures. An incomplete plan has its
// figures cleared so stale values are never kept.
func (f *FlightPlan) Recompute() {
	figures, err := f.Profit()
	if err != nil {
		f.PricingPlan.clearDerived()
		return
	}
	f.PricingPlan.apply(figures)
}

// Profit derives the pricing figures from the current sub-plans. It returns
// ErrIncomplete unless the plan is complete.
func (f *FlightPlan) Profit() (Figures, error) {
	if !f.Complete() {
		return Figures{}, ErrIncomplete
	}

	distance, _ := f.AirportPlan.Distance()
	standardSeats, _ := f.AircraftPlan.NumStandardClass()
	firstSeats := decimal.NewFromInt(int64(*f.AircraftPlan.NumFirstClass))
	standard := decimal.NewFromInt(int64(standardSeats))

	costPerSeat := f.AircraftPlan.Aircraft.RunningCost.Mul(decimal.NewFromInt(int64(distance)).Div(decimal.NewFromInt(100)))
	runningCost := costPerSeat.Mul(firstSeats.Add(standard))
	income := firstSeats.Mul(f.PricingPlan.FirstClassPrice.Decimal).
		Add(standard.Mul(f.PricingPlan.StandardClassPrice.Decimal))
	profit := income.Sub(runningCost)

	return Figures{
		CostPerSeat: costPerSeat.Round(2),
		RunningCost: runningCost.Round(2),
		Income:      income.Round(2),
		Profit:      profit.Round(2),
	}, nil
}

// DerivedEqual reports whether two plans carry the same pricing figures.
func (p PricingPlan) DerivedEqual(other PricingPlan) bool {
	return nullEqual(p.CostPerSeat, other.CostPerSeat) &&
		nullEqual(p.RunningCost, other.RunningCost) &&
		nullEqual(p.Income, other.Income) &&
		nullEqual(p.Profit, other.Profit)
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}
