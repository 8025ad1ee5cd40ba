package model

import "strings"

// Stand is a parking position where one aircraft turn takes place.
// CompatibleTypes is the base compatibility set, before any adjacency
// restriction applies; order follows the input and is preserved because
// engine iteration order depends on it.  Terminal, Pier, MaxSize and
// HasJetbridge inform reporting and allocation scoring only; they never
// enter the capacity math.
type Stand struct {
	ID              string       `json:"id"`
	CompatibleTypes []string     `json:"compatible_types"`
	Terminal        string       `json:"terminal,omitempty"`
	Pier            string       `json:"pier,omitempty"`
	MaxSize         SizeCategory `json:"max_size,omitempty"`
	HasJetbridge    bool         `json:"has_jetbridge,omitempty"`
}

// NewStand validates and builds a Stand.  Compatible type IDs are
// trimmed; empty entries are rejected.
func NewStand(id string, compatibleTypes []string) (Stand, error) {
	if strings.TrimSpace(id) == "" {
		return Stand{}, &InputError{Field: "stand.id", Msg: "must be non-empty"}
	}
	types := make([]string, 0, len(compatibleTypes))
	for _, t := range compatibleTypes {
		t = strings.TrimSpace(t)
		if t == "" {
			return Stand{}, &InputError{Field: "stand.compatible_types", Msg: "contains an empty type id"}
		}
		types = append(types, t)
	}
	return Stand{ID: id, CompatibleTypes: types}, nil
}

// Compatible reports whether the stand's base set admits the type.
func (s Stand) Compatible(typeID string) bool {
	for _, t := range s.CompatibleTypes {
		if t == typeID {
			return true
		}
	}
	return false
}
