package model

import "github.com/jmehdipour/pisa-dashboard/internal/markov"

// Material is one row of the materials table.
//
// For each derived metric a nil value with a nil error means the column is
// absent (or the cell is empty); a non-nil error means the cell was present but
// malformed.
type Material struct {
	Name   string
	Fields []Field

	Transition    *markov.Matrix
	TransitionErr error

	Stationary    *markov.Distribution
	StationaryErr error
}
