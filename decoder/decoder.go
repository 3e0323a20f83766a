package decoder

import (
	"fmt"

	"github.com/katalvlaran/qudec/matching"
)

// BoundaryID marks the boundary side of a Pair, independent of the graph's
// boundary vertex id.
const BoundaryID = -1

// Decoder predicts observable flips from sorted fired detector ids.
type Decoder interface {
	Decode(dets []int, sink Sink) (*Result, error)
}

// Pair is one matched pair with the observables flipped along its path.
// B is BoundaryID when A is matched to the boundary.
type Pair struct {
	A, B   int
	Weight int64
	Obs    *Result
}

// ToBoundary reports whether p ends at the boundary.
func (p Pair) ToBoundary() bool { return p.B == BoundaryID }

// String implements fmt.Stringer.
func (p Pair) String() string {
	if p.ToBoundary() {
		return fmt.Sprintf("(%d, boundary) %v", p.A, p.Obs)
	}

	return fmt.Sprintf("(%d, %d) %v", p.A, p.B, p.Obs)
}

// options configures a Global decoder.
type options struct {
	solver matching.Solver
	early  bool
}

// Option customizes a Global decoder (and the Global decoders built inside
// SlidingWindow and EPR).
type Option func(*options)

func newOptions(opts ...Option) options {
	o := options{solver: matching.Exact(), early: true}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithSolver selects the matching backend. Panics on nil.
func WithSolver(s matching.Solver) Option {
	if s == nil {
		panic("decoder: WithSolver(nil)")
	}

	return func(o *options) { o.solver = s }
}

// WithEarlyTermination toggles Dijkstra early termination on the remaining
// candidates (default on). Results are identical either way.
func WithEarlyTermination(on bool) Option {
	return func(o *options) { o.early = on }
}

// checkSyndrome validates that dets are strictly increasing detector ids of
// a graph with the given id span and boundary.
func checkSyndrome(dets []int, span, boundary int) error {
	prev := -1
	for _, d := range dets {
		switch {
		case d < 0 || d >= span:
			return fmt.Errorf("%w: detector %d outside [0,%d)", ErrInvalidSyndrome, d, span)
		case d == boundary:
			return fmt.Errorf("%w: detector %d is the boundary", ErrInvalidSyndrome, d)
		case d <= prev:
			return fmt.Errorf("%w: detectors not strictly increasing at %d", ErrInvalidSyndrome, d)
		}
		prev = d
	}

	return nil
}
