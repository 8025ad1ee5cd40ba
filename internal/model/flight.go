package model

import (
	"strings"
	"time"
)

// FlightNature distinguishes arrivals from departures.
type FlightNature string

const (
	Arrival   FlightNature = "Arrival"
	Departure FlightNature = "Departure"
)

// ParseFlightNature accepts the nature names and the common A/D and
// ARR/DEP shorthands, case-insensitive.
func ParseFlightNature(s string) (FlightNature, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ARRIVAL", "ARR", "A":
		return Arrival, nil
	case "DEPARTURE", "DEP", "D":
		return Departure, nil
	}
	return "", &InputError{Field: "flight.nature", Msg: "want Arrival or Departure, got " + s}
}

// Flight is one scheduled movement.  Instants are UTC.  LinkID groups an
// arrival with its departure into a single aircraft turn; a flight with
// an empty LinkID is an unpaired movement.
type Flight struct {
	ID              string       `json:"id"`
	Number          string       `json:"number"`
	AirlineCode     string       `json:"airline_code"`
	AircraftTypeID  string       `json:"aircraft_type_id"`
	Nature          FlightNature `json:"nature"`
	Scheduled       time.Time    `json:"scheduled"`
	Estimated       *time.Time   `json:"estimated,omitempty"`
	OriginIATA      string       `json:"origin_iata,omitempty"`
	DestinationIATA string       `json:"destination_iata,omitempty"`
	Terminal        string       `json:"terminal,omitempty"`
	LinkID          string       `json:"link_id,omitempty"`
}

// EffectiveTime is the estimated instant when present, else the schedule.
func (f Flight) EffectiveTime() time.Time {
	if f.Estimated != nil {
		return *f.Estimated
	}
	return f.Scheduled
}
