// Package model holds the entity types shared by the validation,
// capacity and allocation engines: aircraft types, stands, adjacency
// rules, operational settings and flights.  Constructors enforce the
// structural invariants; entities are immutable once built.
package model

import (
	"errors"
	"fmt"
)

// ErrAborted is returned by an engine whose context was cancelled.  Any
// partially built result is discarded before the engine returns.
var ErrAborted = errors.New("run aborted")

// InputError reports a malformed or out-of-range field in an entity
// definition.  It is recoverable: the caller fixes the input and retries.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Msg)
}

// LogicError reports a contradiction between inputs, such as an adjacency
// rule naming a stand that does not exist.  Engines abort on it.
type LogicError struct {
	Context string
	Msg     string
}

func (e *LogicError) Error() string {
	return fmt.Sprintf("%s: %s", e.Context, e.Msg)
}
