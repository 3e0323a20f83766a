package decoder

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/qudec/core"
)

// FPDConfig configures the FPD pre-decoder.
type FPDConfig struct {
	// ChainLimit bounds the hop count of cached error chains. 0 disables
	// pre-decoding.
	ChainLimit int

	// SkipIfAnyWithoutPref delegates the whole syndrome when some fired
	// detector has no cached fired neighbour.
	SkipIfAnyWithoutPref bool
}

// DefaultFPDConfig returns ChainLimit 3 with SkipIfAnyWithoutPref set.
func DefaultFPDConfig() FPDConfig {
	return FPDConfig{ChainLimit: 3, SkipIfAnyWithoutPref: true}
}

// chainEntry is the cached chain between two detectors.
type chainEntry struct {
	Hops   int
	Weight int64
	Obs    *Result
}

// FPD resolves fired detectors that prefer each other unambiguously through
// a cache of short error chains and hands the rest to a wrapped decoder.
type FPD struct {
	g        *core.Graph
	boundary int
	cfg      FPDConfig
	cache    []map[int]chainEntry
	next     Decoder
}

// NewFPD builds the chain cache of g and wraps next, which must decode the
// same detector ids. FPD takes ownership of next.
func NewFPD(g *core.Graph, next Decoder, cfg FPDConfig) (*FPD, error) {
	if g == nil || next == nil {
		return nil, fmt.Errorf("%w: FPD needs a graph and a wrapped decoder", ErrConfiguration)
	}
	if cfg.ChainLimit < 0 {
		return nil, fmt.Errorf("%w: negative chain limit %d", ErrConfiguration, cfg.ChainLimit)
	}
	b, err := g.Boundary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	f := &FPD{g: g, boundary: b, cfg: cfg, next: next, cache: make([]map[int]chainEntry, g.IDSpan())}
	if cfg.ChainLimit == 0 {
		return f, nil
	}
	for _, v := range g.Vertices() {
		if v.Boundary {
			continue
		}
		if f.cache[v.ID], err = f.chains(v.ID); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// chains returns, for every detector src reaches in at most ChainLimit hops
// without crossing the boundary, the shortest chain by hop count, cheapest
// among chains of that length. Frontiers are walked in id order and replaced
// only on strictly lower weight, so ties resolve the same way on every run.
func (f *FPD) chains(src int) (map[int]chainEntry, error) {
	best := make(map[int]chainEntry)
	frontier := map[int]chainEntry{src: {Obs: NewResult()}}
	for h := 1; h <= f.cfg.ChainLimit && len(frontier) > 0; h++ {
		next := make(map[int]chainEntry)
		for _, u := range sortedKeys(frontier) {
			cu := frontier[u]
			adj, err := f.g.Neighbors(u)
			if err != nil {
				return nil, err
			}
			for _, e := range adj {
				v := e.Other(u)
				if v == f.boundary || v == src {
					continue
				}
				w := cu.Weight + e.Weight
				if old, ok := next[v]; ok && old.Weight <= w {
					continue
				}
				obs := cu.Obs.Clone()
				obs.FlipAll(e.Observables)
				next[v] = chainEntry{Hops: h, Weight: w, Obs: obs}
			}
		}
		for v, c := range next {
			if _, ok := best[v]; !ok {
				best[v] = c
			}
		}
		frontier = next
	}

	return best, nil
}

func sortedKeys(m map[int]chainEntry) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	return keys
}

// preference is a fired detector's closest cached fired neighbour, ranked
// by hops and then weight, and the number of neighbours sharing that rank.
type preference struct {
	pref  int
	count int
}

// Decode implements Decoder.
//
// Steps:
//  1. Compute each fired detector's preference.
//  2. Delegate everything if a detector has none and SkipIfAnyWithoutPref.
//  3. Resolve mutual, untied preferences from the cache.
//  4. Delegate the rest.
func (f *FPD) Decode(dets []int, sink Sink) (*Result, error) {
	sink = orNop(sink)
	if f.cfg.ChainLimit == 0 || len(dets) < 2 {
		return f.next.Decode(dets, sink)
	}
	if err := checkSyndrome(dets, len(f.cache), f.boundary); err != nil {
		return nil, err
	}

	// 1. Preferences.
	prefs := make(map[int]preference, len(dets))
	for _, d := range dets {
		p := preference{pref: -1}
		var best chainEntry
		for _, o := range dets {
			if o == d {
				continue
			}
			c, ok := f.cache[d][o]
			if !ok {
				continue
			}
			switch {
			case p.pref < 0 || c.Hops < best.Hops || (c.Hops == best.Hops && c.Weight < best.Weight):
				p, best = preference{pref: o, count: 1}, c
			case c.Hops == best.Hops && c.Weight == best.Weight:
				p.count++
			}
		}
		prefs[d] = p
	}

	// 2. Early bail.
	if f.cfg.SkipIfAnyWithoutPref {
		for _, d := range dets {
			if prefs[d].pref < 0 {
				if sink.Enabled() {
					sink.Trace("fpd skipped", "det", d)
				}

				return f.next.Decode(dets, sink)
			}
		}
	}

	// 3. Consensual pairs.
	res := NewResult()
	resolved := make(map[int]bool)
	for _, d := range dets {
		p := prefs[d]
		if p.pref < d || p.count != 1 {
			continue
		}
		q := prefs[p.pref]
		if q.pref != d || q.count != 1 {
			continue
		}
		res.Xor(f.cache[d][p.pref].Obs)
		resolved[d], resolved[p.pref] = true, true
		if sink.Enabled() {
			sink.Trace("fpd pair", "a", d, "b", p.pref, "hops", f.cache[d][p.pref].Hops)
		}
	}

	// 4. Remainder.
	rest := make([]int, 0, len(dets)-len(resolved))
	for _, d := range dets {
		if !resolved[d] {
			rest = append(rest, d)
		}
	}
	if len(rest) > 0 {
		sub, err := f.next.Decode(rest, sink)
		if err != nil {
			return nil, err
		}
		res.Xor(sub)
	}

	return res, nil
}
