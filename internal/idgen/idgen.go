// Package idgen produces unique identifiers for persisted entities.
package idgen

import "github.com/oklog/ulid/v2"

// Generator returns a new globally unique identifier on every call.
type Generator interface {
	Next() string
}

// ULID generates lexicographically sortable, time-ordered identifiers.
type ULID struct{}

// NewULID returns a ULID generator.
func NewULID() ULID {
	return ULID{}
}

// Next returns a fresh ULID string.
// ulid.Make draws from a process-wide monotonic entropy source and is safe
// for concurrent use.
func (ULID) Next() string {
	return ulid.Make().String()
}

// Func adapts a plain function to the Generator interface.
type Func func() string

// Next calls f.
func (f Func) Next() string {
	return f()
}
