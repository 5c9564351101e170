package domain

import "github.com/shopspring/decimal"

type UKAirport string

const (
	UKAirportUnset       UKAirport = ""
	UKAirportLiverpool   UKAirport = "LPL"
	UKAirportBournemouth UKAirport = "BOH"
)

func (u UKAirport) Valid() bool {
	return u == UKAirportLiverpool || u == UKAirportBournemouth
}

func (u UKAirport) Name() string {
	switch u {
	case UKAirportLiverpool:
		return "Liverpool John Lennon Airport"
	case UKAirportBournemouth:
		return "Bournemouth International Airport"
	default:
		return ""
	}
}

type Airport struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	DistanceFromLPL int    `json:"distance_from_lpl"`
	DistanceFromBOH int    `json:"distance_from_boh"`
}

// DistanceFrom returns the distance in km from the given UK airport.
func (a Airport) DistanceFrom(uk UKAirport) (int, bool) {
	switch uk {
	case UKAirportLiverpool:
		return a.DistanceFromLPL, true
	case UKAirportBournemouth:
		return a.DistanceFromBOH, true
	default:
		return 0, false
	}
}

type Aircraft struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	// RunningCost is in £ per seat per 100km.
	RunningCost      decimal.Decimal `json:"running_cost"`
	Range            int             `json:"range"`
	MaxStandardClass int             `json:"max_standard_class"`
	MinFirstClass    int             `json:"min_first_class"`
}

// FirstClassLimit is the exclusive upper bound on first class seats. Each
// first class seat takes the room of two standard class seats.
func (a Aircraft) FirstClassLimit() decimal.Decimal {
	return decimal.NewFromInt(int64(a.MaxStandardClass)).Div(decimal.NewFromInt(2))
}
