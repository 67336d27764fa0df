// Package markov holds the fixed-shape arrays of the two-state active/inactive
// chain that the upstream model publishes for every material: the one-period
// transition matrix and its stationary distribution.
//
// Nothing here estimates or iterates the chain; values are parsed from their
// stored text form and handed to the display layer as they are.
package markov

// State is one of the two chain states.
type State int

const (
	Active State = iota
	Inactive
)

// States lists the chain states in matrix order.
var States = [...]State{Active, Inactive}

func (s State) String() string {
	switch s {
	case Active:
		return "Active"
	case Inactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// Matrix is a 2×2 transition matrix; m[from][to] is the probability of moving
// from one state to the other in a single period.
type Matrix [2][2]float64

func (m Matrix) At(from, to State) float64 { return m[from][to] }

// Row returns the outgoing probabilities of a state.
func (m Matrix) Row(from State) [2]float64 { return m[from] }

// StayActive is the probability that an active item is still active next period.
func (m Matrix) StayActive() float64 { return m[Active][Active] }

// BecomeInactive is the probability that an active item turns inactive next period.
func (m Matrix) BecomeInactive() float64 { return m[Active][Inactive] }

// Distribution is the long-run share of time spent in each state.
type Distribution [2]float64

func (d Distribution) Of(s State) float64 { return d[s] }

// Sum returns the stored total; the vector is never renormalised.
func (d Distribution) Sum() float64 { return d[Active] + d[Inactive] }
