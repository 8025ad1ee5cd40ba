package model

import "time"

// Allocation records one flight parked on one stand for the half-open
// interval [OccupyStart, OccupyEnd).
type Allocation struct {
	FlightID    string    `json:"flight_id"`
	StandID     string    `json:"stand_id"`
	OccupyStart time.Time `json:"occupy_start"`
	OccupyEnd   time.Time `json:"occupy_end"`
}

// UnallocationReason says why a turn could not be placed.  The values
// are wire-stable.
type UnallocationReason string

const (
	NoCompatibleStand              UnallocationReason = "NoCompatibleStand"
	NoStandOfRequiredSize          UnallocationReason = "NoStandOfRequiredSize"
	StandMaintenanceConflict       UnallocationReason = "StandMaintenanceConflict"
	AdjacencyConstraintViolation   UnallocationReason = "AdjacencyConstraintViolation"
	TerminalPreferenceUnavailable  UnallocationReason = "TerminalPreferenceUnavailable"
	OperationalConstraintViolation UnallocationReason = "OperationalConstraintViolation"
	NoSlotAvailableInWindow        UnallocationReason = "NoSlotAvailableInWindow"
)

// Unallocated pairs a flight with the most specific reason it was left
// off stand.
type Unallocated struct {
	FlightID string             `json:"flight_id"`
	Reason   UnallocationReason `json:"reason"`
	Detail   string             `json:"detail,omitempty"`
}

// MaintenanceBlock takes a stand out of service for [From, To).
type MaintenanceBlock struct {
	StandID string    `json:"stand_id"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

// StandMetrics summarizes one stand's day after an allocation run.
type StandMetrics struct {
	BusyMinutes     int     `json:"busy_minutes"`
	Utilization     float64 `json:"utilization"`
	AllocationCount int     `json:"allocation_count"`
}
