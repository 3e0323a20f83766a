package decoder

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/qudec/core"
)

// PromatchConfig configures the Promatch pre-decoder.
type PromatchConfig struct {
	// Disabled delegates every syndrome untouched.
	Disabled bool
	// MaxRounds bounds the pairs removed per decode; 0 means no bound.
	MaxRounds int
}

// Promatch peels adjacent fired pairs off the induced subgraph of the
// syndrome and hands the remainder to a wrapped decoder.
type Promatch struct {
	g        *core.Graph
	boundary int
	span     int
	cfg      PromatchConfig
	next     Decoder
}

// NewPromatch wraps next, which must decode the detector ids of g.
// Promatch takes ownership of next.
func NewPromatch(g *core.Graph, next Decoder, cfg PromatchConfig) (*Promatch, error) {
	if g == nil || next == nil {
		return nil, fmt.Errorf("%w: Promatch needs a graph and a wrapped decoder", ErrConfiguration)
	}
	if cfg.MaxRounds < 0 {
		return nil, fmt.Errorf("%w: negative max rounds %d", ErrConfiguration, cfg.MaxRounds)
	}
	b, err := g.Boundary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return &Promatch{g: g, boundary: b, span: g.IDSpan(), cfg: cfg, next: next}, nil
}

// Decode implements Decoder.
//
// Each round removes the first adjacent pair, in id order, whose removal
// leaves every other fired neighbour with at least one fired neighbour.
// Rounds repeat until no pair qualifies.
func (p *Promatch) Decode(dets []int, sink Sink) (*Result, error) {
	sink = orNop(sink)
	if p.cfg.Disabled {
		return p.next.Decode(dets, sink)
	}
	if err := checkSyndrome(dets, p.span, p.boundary); err != nil {
		return nil, err
	}

	// induced subgraph of the fired set
	adj := make(map[int]map[int]*core.Edge, len(dets))
	for _, d := range dets {
		adj[d] = make(map[int]*core.Edge)
	}
	for _, d := range dets {
		edges, err := p.g.Neighbors(d)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if o := e.Other(d); o != p.boundary {
				if _, fired := adj[o]; fired {
					adj[d][o] = e
				}
			}
		}
	}

	res := NewResult()
	for round := 0; p.cfg.MaxRounds == 0 || round < p.cfg.MaxRounds; round++ {
		u, v, e := p.removable(adj)
		if e == nil {
			break
		}
		res.FlipAll(e.Observables)
		for _, x := range []int{u, v} {
			for o := range adj[x] {
				delete(adj[o], x)
			}
			delete(adj, x)
		}
		if sink.Enabled() {
			sink.Trace("promatch pair", "a", u, "b", v, "round", round)
		}
	}

	rest := make([]int, 0, len(adj))
	for d := range adj {
		rest = append(rest, d)
	}
	sort.Ints(rest)
	if len(rest) > 0 {
		sub, err := p.next.Decode(rest, sink)
		if err != nil {
			return nil, err
		}
		res.Xor(sub)
	}

	return res, nil
}

// removable returns the first adjacent pair (u < v) whose removal strands no
// third vertex, or a nil edge.
func (p *Promatch) removable(adj map[int]map[int]*core.Edge) (int, int, *core.Edge) {
	ids := make([]int, 0, len(adj))
	for d := range adj {
		ids = append(ids, d)
	}
	sort.Ints(ids)

	for _, u := range ids {
		nbrs := make([]int, 0, len(adj[u]))
		for v := range adj[u] {
			if v > u {
				nbrs = append(nbrs, v)
			}
		}
		sort.Ints(nbrs)
		for _, v := range nbrs {
			if !strands(adj, u, v) {
				return u, v, adj[u][v]
			}
		}
	}

	return 0, 0, nil
}

// strands reports whether removing u and v leaves some neighbour of either
// with no fired neighbour.
func strands(adj map[int]map[int]*core.Edge, u, v int) bool {
	for _, x := range []int{u, v} {
		for w := range adj[x] {
			if w == u || w == v {
				continue
			}
			deg := len(adj[w])
			if _, ok := adj[w][u]; ok {
				deg--
			}
			if _, ok := adj[w][v]; ok {
				deg--
			}
			if deg == 0 {
				return true
			}
		}
	}

	return false
}
