// SPDX-License-Identifier: MIT
// Package: qudec/builder
//
// build.go — Build and Quantize.

package builder

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/qudec/core"
	"github.com/katalvlaran/qudec/dem"
)

// WeightScale multiplies -ln p before rounding.
const WeightScale = 100.0

// MaxWeight caps quantized weights of vanishing probabilities.
const MaxWeight int64 = 1 << 40

// Quantize maps a probability to its matching weight round(-100 · ln p).
// p <= 0 maps to MaxWeight; p >= 1 maps to 0.
func Quantize(p float64) int64 {
	if p <= 0 {
		return MaxWeight
	}
	if p >= 1 {
		return 0
	}
	w := math.Round(-WeightScale * math.Log(p))
	if w >= float64(MaxWeight) {
		return MaxWeight
	}

	return int64(w)
}

// Build constructs the decoding graph of m.
//
// Steps:
//  1. Reject observable-only mechanisms and mechanisms with 0 or >2 detectors.
//  2. Add detectors 0..n-1 (metadata from coordinates) and boundary n.
//  3. Insert or merge one edge per mechanism; p == 0 is skipped.
//  4. Quantize every edge weight.
//
// Complexity: O(V + M·d) where d is the largest vertex degree.
func Build(m *dem.Model, opts ...Option) (*core.Graph, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	cfg := newBuilderConfig(opts...)

	// 1. Validation scans report every offender at once.
	if bad := m.ObservableOnly(); len(bad) > 0 {
		return nil, malformed("mechanisms flip observables without detectors", bad)
	}
	reduced := make([][]int, len(m.Mechanisms))
	var badArity []dem.Mechanism
	for i, mech := range m.Mechanisms {
		reduced[i] = cancelPairs(mech.Detectors)
		if n := len(reduced[i]); n == 0 || n > core.MaxOrder {
			badArity = append(badArity, mech)
		}
	}
	if len(badArity) > 0 {
		return nil, malformed("mechanisms must touch one or two detectors", badArity)
	}

	// 2. Vertices.
	n := m.NumDetectors
	g := core.NewGraph(core.WithCapacity(n+1, len(m.Mechanisms)))
	coords := m.DetectorCoords()
	for id := 0; id < n; id++ {
		if err := g.AddVertex(cfg.detectorVertex(id, coords[id])); err != nil {
			return nil, fmt.Errorf("builder: detector %d: %w", id, err)
		}
	}
	boundary := n
	if err := g.AddVertex(core.Vertex{ID: boundary, Boundary: true}); err != nil {
		return nil, fmt.Errorf("builder: boundary: %w", err)
	}

	// 3. Edges.
	var merged, skipped int
	for i, mech := range m.Mechanisms {
		if mech.Probability < 0 || mech.Probability > 1 || math.IsNaN(mech.Probability) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProbability, mech.String())
		}
		if mech.Probability == 0 {
			skipped++
			cfg.debug("skipping zero-probability mechanism", "mechanism", mech.String())
			continue
		}

		u, v := reduced[i][0], boundary
		if len(reduced[i]) == 2 {
			v = reduced[i][1]
		}
		obs := sortedUnique(mech.Observables)

		e, err := g.UniqueEdge(u, v)
		switch {
		case err == nil:
			merged++
			cfg.mergeInto(e, mech.Probability, obs)
			cfg.debug("merged mechanism", "u", u, "v", v, "p", e.Probability)
		case errors.Is(err, core.ErrEdgeNotFound):
			if _, err = g.AddEdge(u, v, core.EdgeData{Probability: mech.Probability, Observables: obs}); err != nil {
				return nil, fmt.Errorf("builder: %s: %w", mech.String(), err)
			}
		default:
			return nil, fmt.Errorf("builder: %s: %w", mech.String(), err)
		}
	}

	// 4. Weights.
	for _, e := range g.Edges() {
		e.Weight = Quantize(e.Probability)
	}

	cfg.debug("decoding graph built",
		"detectors", n, "edges", g.EdgeCount(), "merged", merged, "skipped", skipped)

	return g, nil
}

// detectorVertex reads color and flag metadata from coordinates.
func (c builderConfig) detectorVertex(id int, coords []float64) core.Vertex {
	v := core.Vertex{ID: id, Coords: coords}
	if c.colorCoord >= 0 && c.colorCoord < len(coords) {
		if col := int(math.Round(coords[c.colorCoord])); col >= int(core.ColorNone) && col <= int(core.ColorBlue) {
			v.Color = core.Color(col)
		}
	}
	if c.flagCoord >= 0 && c.flagCoord < len(coords) {
		v.Flag = math.Round(coords[c.flagCoord]) > 0
	}

	return v
}

func (c builderConfig) mergeInto(e *core.Edge, p float64, obs []int) {
	if c.merge == MergeOverwrite {
		e.Probability = p
		e.Observables = obs

		return
	}
	e.Probability = e.Probability*(1-p) + (1-e.Probability)*p
	e.Observables = sortedUnique(append(append([]int(nil), e.Observables...), obs...))
}

func (c builderConfig) debug(msg string, keyvals ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, keyvals...)
	}
}

// cancelPairs drops detectors listed an even number of times and returns the
// rest in ascending order.
func cancelPairs(dets []int) []int {
	count := make(map[int]int, len(dets))
	for _, d := range dets {
		count[d]++
	}
	out := make([]int, 0, len(count))
	for d, k := range count {
		if k%2 == 1 {
			out = append(out, d)
		}
	}
	sort.Ints(out)

	return out
}

func sortedUnique(xs []int) []int {
	if len(xs) == 0 {
		return nil
	}
	out := append([]int(nil), xs...)
	sort.Ints(out)
	k := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[k-1] {
			out[k] = out[i]
			k++
		}
	}

	return out[:k]
}
