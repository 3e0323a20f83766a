package decoder

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/qudec/core"
	"github.com/katalvlaran/qudec/dijkstra"
	"github.com/katalvlaran/qudec/matching"
)

// Global is the exact minimum-weight perfect matching decoder.
type Global struct {
	g        *core.Graph
	boundary int
	span     int
	opts     options
}

// NewGlobal returns a Global decoder over g. g must be dense with a boundary.
func NewGlobal(g *core.Graph, opts ...Option) (*Global, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrConfiguration)
	}
	b, err := g.Boundary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if !g.Dense() {
		return nil, fmt.Errorf("%w: vertex ids are not dense", ErrConfiguration)
	}

	return &Global{g: g, boundary: b, span: g.IDSpan(), opts: newOptions(opts...)}, nil
}

// Graph returns the decoding graph.
func (d *Global) Graph() *core.Graph { return d.g }

// Decode implements Decoder.
func (d *Global) Decode(dets []int, sink Sink) (*Result, error) {
	pairs, err := d.Match(dets, sink)
	if err != nil {
		return nil, err
	}
	res := NewResult()
	for _, p := range pairs {
		res.Xor(p.Obs)
	}

	return res, nil
}

// Match pairs every detector in dets with another detector or the boundary
// along shortest paths of minimum total weight.
//
// Steps:
//  1. Pad an odd set with the boundary.
//  2. Run Dijkstra from each candidate towards the later candidates.
//  3. Solve the dense cost matrix.
//  4. Turn each matched path into pairs; a path through the boundary becomes
//     two boundary pairs.
func (d *Global) Match(dets []int, sink Sink) ([]Pair, error) {
	sink = orNop(sink)
	if err := checkSyndrome(dets, d.span, d.boundary); err != nil {
		return nil, err
	}

	// 1. Candidates.
	cands := make([]int, len(dets), len(dets)+1)
	copy(cands, dets)
	if len(cands)%2 == 1 {
		cands = append(cands, d.boundary)
	}
	k := len(cands)
	if k == 0 {
		return nil, nil
	}

	// 2. Pairwise costs.
	runs := make([]*dijkstra.Result, k)
	cost := make([][]int64, k)
	for i := range cost {
		cost[i] = make([]int64, k)
	}
	for i := 0; i < k-1; i++ {
		var dopts []dijkstra.Option
		if d.opts.early {
			dopts = append(dopts, dijkstra.WithTargets(cands[i+1:]...))
		}
		res, err := dijkstra.Dijkstra(d.g, cands[i], dopts...)
		if err != nil {
			return nil, fmt.Errorf("decoder: shortest paths from %d: %w", cands[i], err)
		}
		runs[i] = res
		for j := i + 1; j < k; j++ {
			c := res.Dist[cands[j]]
			if c == dijkstra.Inf {
				c = matching.Inf
			}
			cost[i][j], cost[j][i] = c, c
		}
	}

	// 3. Matching.
	mate, err := d.opts.solver.Solve(cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoderInternal, err)
	}
	if len(mate) != k {
		return nil, fmt.Errorf("%w: solver returned %d mates for %d vertices", ErrDecoderInternal, len(mate), k)
	}

	// 4. Pairs.
	pairs := make([]Pair, 0, k/2+1)
	for i, j := range mate {
		if j < 0 || j >= k || mate[j] != i || i == j {
			return nil, fmt.Errorf("%w: incomplete matching at %d", ErrDecoderInternal, cands[i])
		}
		if j < i {
			continue
		}
		path, err := runs[i].PathTo(cands[j])
		if err != nil {
			return nil, fmt.Errorf("%w: %d-%d: %w", ErrDecoderInternal, cands[i], cands[j], err)
		}
		ps, err := d.pathPairs(path)
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			if sink.Enabled() {
				sink.Trace("matched", "a", p.A, "b", p.B, "weight", p.Weight, "obs", p.Obs.Observables())
			}
			pairs = append(pairs, p)
		}
	}

	return pairs, nil
}

// pathPairs converts a shortest path into one pair, or two boundary pairs if
// the boundary is an interior vertex.
func (d *Global) pathPairs(path []int) ([]Pair, error) {
	last := len(path) - 1
	cut := -1
	for i, v := range path {
		if v == d.boundary {
			cut = i
			break
		}
	}

	switch {
	case cut < 0:
		p, err := d.segment(path, path[0], path[last])
		if err != nil {
			return nil, err
		}

		return []Pair{p}, nil
	case cut == last:
		p, err := d.segment(path, path[0], BoundaryID)
		if err != nil {
			return nil, err
		}

		return []Pair{p}, nil
	default:
		left, err := d.segment(path[:cut+1], path[0], BoundaryID)
		if err != nil {
			return nil, err
		}
		right, err := d.segment(path[cut:], path[last], BoundaryID)
		if err != nil {
			return nil, err
		}

		return []Pair{left, right}, nil
	}
}

// segment XORs the observables of every edge along path.
func (d *Global) segment(path []int, a, b int) (Pair, error) {
	p := Pair{A: a, B: b, Obs: NewResult()}
	for i := 1; i < len(path); i++ {
		e, err := d.g.UniqueEdge(path[i-1], path[i])
		if err != nil {
			if errors.Is(err, core.ErrNonUniqueEdge) {
				return Pair{}, err
			}

			return Pair{}, fmt.Errorf("%w: path step %d-%d: %w", ErrDecoderInternal, path[i-1], path[i], err)
		}
		p.Weight += e.Weight
		p.Obs.FlipAll(e.Observables)
	}

	return p, nil
}

// toBoundary returns the pair joining det to the boundary along its shortest
// path.
func (d *Global) toBoundary(det int) (Pair, error) {
	res, err := dijkstra.Dijkstra(d.g, det, dijkstra.WithTargets(d.boundary))
	if err != nil {
		return Pair{}, fmt.Errorf("decoder: shortest paths from %d: %w", det, err)
	}
	path, err := res.PathTo(d.boundary)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %d cannot reach the boundary: %w", ErrDecoderInternal, det, err)
	}

	return d.segment(path, det, BoundaryID)
}
