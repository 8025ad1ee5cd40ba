package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/timeutil"
)

// FlightRecord is one raw row from a tabular flight source.  Fields are
// untyped strings because the validator itself performs the type checks;
// Row is the 1-based source row for diagnostics.
type FlightRecord struct {
	Row            int    `json:"row"`
	ID             string `json:"id"`
	Number         string `json:"number"`
	AirlineCode    string `json:"airline_code"`
	AircraftTypeID string `json:"aircraft_type_id"`
	Nature         string `json:"nature"`
	Scheduled      string `json:"scheduled"`
	Estimated      string `json:"estimated,omitempty"`
	OriginIATA     string `json:"origin_iata"`
	DestIATA       string `json:"destination_iata"`
	Terminal       string `json:"terminal,omitempty"`
	LinkID         string `json:"link_id,omitempty"`
}

// Connection is one declared passenger connection between an arriving
// and a departing flight, with allowed transfer bounds in minutes.
type Connection struct {
	ArrivalID          string  `json:"arrival"`
	DepartureID        string  `json:"departure"`
	MinTransferMinutes int     `json:"min_transfer"`
	MaxTransferMinutes int     `json:"max_transfer"`
	Critical           TabBool `json:"critical,omitempty"`
}

// TabBool is a bool that, when decoded from JSON, also accepts the
// string spellings tolerated in tabular sources ("yes", "N", "1", ...).
type TabBool bool

func (b *TabBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*b = TabBool(v)
		return nil
	case string:
		parsed, err := ParseBool(v)
		if err != nil {
			return err
		}
		*b = TabBool(parsed)
		return nil
	}
	return fmt.Errorf("invalid boolean %v", raw)
}

// ReferenceData is the lookup material records are checked against.
type ReferenceData struct {
	Airlines      map[string]bool
	AircraftTypes []model.AircraftType
	Terminals     map[string]bool
	Connections   []Connection
}

// DefaultMinTurnaroundMinutes applies when BusinessRuleSettings leaves
// the minimum unset.
const DefaultMinTurnaroundMinutes = 45

// BusinessRuleSettings tunes the rule checks.
type BusinessRuleSettings struct {
	MinTurnaroundMinutes int
	DatePrefs            timeutil.DatePrefs
}

func (s BusinessRuleSettings) minTurnaround() int {
	if s.MinTurnaroundMinutes <= 0 {
		return DefaultMinTurnaroundMinutes
	}
	return s.MinTurnaroundMinutes
}

// ParseBool accepts the boolean spellings tolerated in tabular input.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "y":
		return true, nil
	case "false", "no", "0", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
