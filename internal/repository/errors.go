// Package repository holds data access logic for the planning entities.
// Sentinel errors defined here let handlers distinguish failure
// scenarios: ErrNotFound maps to HTTP 404, ErrConflict to 409.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting an aircraft type that stands or
// flights still reference.
var ErrConflict = errors.New("conflict")
