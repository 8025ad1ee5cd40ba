// Package queue defines message payloads exchanged over the message broker.
package queue

// AllocationCompletedEvent is published when an allocation run finishes.
// It carries the headline numbers so downstream consumers can log or
// trigger analytics without querying the primary database.
type AllocationCompletedEvent struct {
	RunID            uint64   `json:"run_id"`
	FlightCount      int      `json:"flight_count"`
	AllocatedCount   int      `json:"allocated_count"`
	UnallocatedCount int      `json:"unallocated_count"`
	AllocationRate   float64  `json:"allocation_rate"`
	Reasons          []string `json:"reasons,omitempty"`
	CompletedAt      string   `json:"completed_at"`
}
