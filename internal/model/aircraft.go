package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SizeCategory is the ICAO aircraft size code.  Categories are totally
// ordered A < B < C < D < E < F; the byte values compare directly.
type SizeCategory byte

const (
	SizeA SizeCategory = 'A'
	SizeB SizeCategory = 'B'
	SizeC SizeCategory = 'C'
	SizeD SizeCategory = 'D'
	SizeE SizeCategory = 'E'
	SizeF SizeCategory = 'F'
)

// ParseSizeCategory accepts a single letter A-F, case-insensitive.
func ParseSizeCategory(s string) (SizeCategory, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	if len(u) != 1 || u[0] < 'A' || u[0] > 'F' {
		return 0, &InputError{Field: "size_category", Msg: fmt.Sprintf("want A..F, got %q", s)}
	}
	return SizeCategory(u[0]), nil
}

func (c SizeCategory) String() string { return string(rune(c)) }

// Valid reports whether the category is one of A..F.
func (c SizeCategory) Valid() bool { return c >= 'A' && c <= 'F' }

// MarshalJSON encodes the category as its letter.
func (c SizeCategory) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// UnmarshalJSON decodes a single-letter string.
func (c *SizeCategory) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseSizeCategory(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// AircraftType describes one aircraft model the airport handles.
// Identity is the ID; two types with the same ID are the same type.
type AircraftType struct {
	ID                   string       `json:"id"`
	SizeCategory         SizeCategory `json:"size_category"`
	AvgTurnaroundMinutes int          `json:"avg_turnaround_minutes"`
}

// NewAircraftType validates and builds an AircraftType.
func NewAircraftType(id string, size SizeCategory, turnaroundMin int) (AircraftType, error) {
	if strings.TrimSpace(id) == "" {
		return AircraftType{}, &InputError{Field: "aircraft_type.id", Msg: "must be non-empty"}
	}
	if !size.Valid() {
		return AircraftType{}, &InputError{Field: "aircraft_type.size_category", Msg: "want A..F"}
	}
	if turnaroundMin <= 0 {
		return AircraftType{}, &InputError{Field: "aircraft_type.avg_turnaround_minutes", Msg: "must be positive"}
	}
	return AircraftType{ID: id, SizeCategory: size, AvgTurnaroundMinutes: turnaroundMin}, nil
}
