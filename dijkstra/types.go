package dijkstra

import (
	"errors"
	"math"

	"github.com/katalvlaran/qudec/core"
)

// Inf is the distance reported for unreachable vertices.
const Inf int64 = math.MaxInt64

// NoPrev marks a vertex without predecessor (the source or an unreachable vertex).
const NoPrev = -1

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNilGraph indicates that a nil *core.Graph was passed to Dijkstra.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrVertexNotFound indicates that the source or a target does not exist.
	ErrVertexNotFound = errors.New("dijkstra: vertex not found in graph")

	// ErrNegativeWeight indicates that the weight function returned a negative value.
	ErrNegativeWeight = errors.New("dijkstra: negative edge weight encountered")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative value.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates that InfEdgeThreshold was set to zero or negative.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")

	// ErrNoPath indicates that Path could not walk from dst back to src.
	ErrNoPath = errors.New("dijkstra: no path between vertices")
)

// WeightFn maps an edge to its traversal cost.
type WeightFn func(e *core.Edge) int64

// QuantizedWeight is the default WeightFn: the edge's quantized weight.
func QuantizedWeight(e *core.Edge) int64 { return e.Weight }

// Options configures the behavior of the Dijkstra algorithm.
//
// WeightFn         – edge cost; defaults to QuantizedWeight.
// Targets          – optional early-termination set; nil means "explore everything".
// MaxDistance      – vertices farther than this are never finalized. Default Inf.
// InfEdgeThreshold – edges with cost ≥ threshold are skipped. Default Inf.
type Options struct {
	WeightFn         WeightFn
	Targets          []int
	MaxDistance      int64
	InfEdgeThreshold int64
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// WithWeightFn sets the edge cost function.
func WithWeightFn(fn WeightFn) Option {
	return func(o *Options) {
		if fn != nil {
			o.WeightFn = fn
		}
	}
}

// WithTargets enables early termination: the search halts once every id in
// targets has been finalized. Duplicates are allowed; the source counts as
// finalized immediately.
func WithTargets(targets ...int) Option {
	return func(o *Options) {
		o.Targets = targets
	}
}

// WithMaxDistance sets a maximum distance threshold.
// Panics on negative values.
func WithMaxDistance(max int64) Option {
	if max < 0 {
		panic(ErrBadMaxDistance.Error())
	}

	return func(o *Options) {
		o.MaxDistance = max
	}
}

// WithInfEdgeThreshold marks edges with cost ≥ threshold as impassable.
// Panics on zero or negative values.
func WithInfEdgeThreshold(threshold int64) Option {
	if threshold <= 0 {
		panic(ErrBadInfThreshold.Error())
	}

	return func(o *Options) {
		o.InfEdgeThreshold = threshold
	}
}

// DefaultOptions returns Options with no targets, no caps and the quantized
// edge weight as cost.
func DefaultOptions() Options {
	return Options{
		WeightFn:         QuantizedWeight,
		MaxDistance:      Inf,
		InfEdgeThreshold: Inf,
	}
}

// Result holds the output of one Dijkstra run, indexed by vertex id.
type Result struct {
	Source int
	Dist   []int64
	Prev   []int
}

// Reached reports whether v was finalized with a finite distance.
func (r *Result) Reached(v int) bool {
	return v >= 0 && v < len(r.Dist) && r.Dist[v] != Inf
}

// PathTo rebuilds the path from r.Source to dst.
func (r *Result) PathTo(dst int) ([]int, error) {
	return Path(r.Prev, r.Source, dst)
}
