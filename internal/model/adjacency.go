package model

import (
	"fmt"
	"strings"
)

// RestrictionKind enumerates what an adjacency rule does to the affected
// stand while the rule is triggered.
type RestrictionKind string

const (
	// NoUse blocks the affected stand entirely.
	NoUse RestrictionKind = "NO_USE"
	// MaxSizeReducedTo caps the affected stand at a size category.
	MaxSizeReducedTo RestrictionKind = "MAX_SIZE_REDUCED_TO"
	// TypeProhibited removes one aircraft type from the affected stand.
	TypeProhibited RestrictionKind = "TYPE_PROHIBITED"
)

// Restriction pairs a kind with its parameter.  Size is meaningful only
// for MAX_SIZE_REDUCED_TO, Type only for TYPE_PROHIBITED.
type Restriction struct {
	Kind RestrictionKind `json:"kind"`
	Size SizeCategory    `json:"size,omitempty"`
	Type string          `json:"type,omitempty"`
}

// AdjacencyRule restricts the affected stand whenever the primary stand
// holds an aircraft whose type is in TriggerTypes.  Rules reference
// stands by ID; they own no entities.
type AdjacencyRule struct {
	PrimaryStand  string      `json:"primary_stand"`
	TriggerTypes  []string    `json:"trigger_types"`
	AffectedStand string      `json:"affected_stand"`
	Restriction   Restriction `json:"restriction"`
}

// NewAdjacencyRule validates the rule's structure: stand references are
// non-empty and the restriction carries its required parameter.
func NewAdjacencyRule(primary string, triggerTypes []string, affected string, r Restriction) (AdjacencyRule, error) {
	if strings.TrimSpace(primary) == "" {
		return AdjacencyRule{}, &InputError{Field: "adjacency_rule.primary_stand", Msg: "must be non-empty"}
	}
	if strings.TrimSpace(affected) == "" {
		return AdjacencyRule{}, &InputError{Field: "adjacency_rule.affected_stand", Msg: "must be non-empty"}
	}
	switch r.Kind {
	case NoUse:
	case MaxSizeReducedTo:
		if !r.Size.Valid() {
			return AdjacencyRule{}, &InputError{Field: "adjacency_rule.restriction.size", Msg: "required for MAX_SIZE_REDUCED_TO"}
		}
	case TypeProhibited:
		if strings.TrimSpace(r.Type) == "" {
			return AdjacencyRule{}, &InputError{Field: "adjacency_rule.restriction.type", Msg: "required for TYPE_PROHIBITED"}
		}
	default:
		return AdjacencyRule{}, &InputError{Field: "adjacency_rule.restriction.kind", Msg: fmt.Sprintf("unknown kind %q", r.Kind)}
	}
	return AdjacencyRule{
		PrimaryStand:  primary,
		TriggerTypes:  triggerTypes,
		AffectedStand: affected,
		Restriction:   r,
	}, nil
}

// Triggered reports whether an aircraft of typeID on the primary stand
// activates this rule.
func (r AdjacencyRule) Triggered(typeID string) bool {
	for _, t := range r.TriggerTypes {
		if t == typeID {
			return true
		}
	}
	return false
}
