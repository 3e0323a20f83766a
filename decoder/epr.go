package decoder

import (
	"fmt"
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/qudec/core"
)

// Detector coordinate layout read by the EPR decoder.
const (
	CoordRound      = 1 // overall round
	CoordBase       = 2 // base detector id, stable across rounds
	CoordSuperRound = 3
	CoordSubRound   = 4
)

// detKey identifies a detector across sub-circuits.
type detKey struct {
	base, super, sub int
}

func keyOf(v *core.Vertex) (detKey, int, bool) {
	if len(v.Coords) <= CoordSubRound {
		return detKey{}, 0, false
	}
	c := func(i int) int { return int(math.Round(v.Coords[i])) }

	return detKey{base: c(CoordBase), super: c(CoordSuperRound), sub: c(CoordSubRound)}, c(CoordRound), true
}

// keyIndex maps the key of every non-boundary vertex to its id and collects
// the bases seen in round 0.
func keyIndex(g *core.Graph, name string) (map[detKey]int, map[int]bool, error) {
	keys := make(map[detKey]int)
	first := make(map[int]bool)
	for _, v := range g.Vertices() {
		if v.Boundary {
			continue
		}
		k, round, ok := keyOf(v)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s detector %d has %d coordinates, need %d",
				ErrConfiguration, name, v.ID, len(v.Coords), CoordSubRound+1)
		}
		if prev, dup := keys[k]; dup {
			return nil, nil, fmt.Errorf("%w: %s detectors %d and %d share base %d super %d sub %d",
				ErrConfiguration, name, prev, v.ID, k.base, k.super, k.sub)
		}
		keys[k] = v.ID
		if round == 0 {
			first[k.base] = true
		}
	}

	return keys, first, nil
}

// Correspondence pairs the inner and outer replicas of bridging detectors.
// Bridging bases are the bases present in the first round of both graphs.
type Correspondence struct {
	Bases        []int
	InnerToOuter map[int]int
	OuterToInner map[int]int
}

// NewCorrespondence scans inner and outer for bridging detectors. A bridging
// detector replicated on only one side is a configuration error.
func NewCorrespondence(inner, outer *core.Graph) (*Correspondence, error) {
	innerKeys, innerFirst, err := keyIndex(inner, "inner")
	if err != nil {
		return nil, err
	}
	outerKeys, outerFirst, err := keyIndex(outer, "outer")
	if err != nil {
		return nil, err
	}

	c := &Correspondence{InnerToOuter: make(map[int]int), OuterToInner: make(map[int]int)}
	bridging := make(map[int]bool)
	for b := range innerFirst {
		if outerFirst[b] {
			bridging[b] = true
			c.Bases = append(c.Bases, b)
		}
	}
	sort.Ints(c.Bases)

	for k, in := range innerKeys {
		if !bridging[k.base] {
			continue
		}
		out, ok := outerKeys[k]
		if !ok {
			return nil, fmt.Errorf("%w: bridging base %d (super %d, sub %d) has no outer replica",
				ErrConfiguration, k.base, k.super, k.sub)
		}
		c.InnerToOuter[in] = out
		c.OuterToInner[out] = in
	}
	for k := range outerKeys {
		if bridging[k.base] {
			if _, ok := innerKeys[k]; !ok {
				return nil, fmt.Errorf("%w: bridging base %d (super %d, sub %d) has no inner replica",
					ErrConfiguration, k.base, k.super, k.sub)
			}
		}
	}

	return c, nil
}

// EPRConfig configures an EPR decoder.
type EPRConfig struct {
	// Inner drives the sliding window over the inner graph.
	Inner WindowParams
	// InnerWindow is the local graph for inner windows; nil decodes every
	// inner window on the full inner graph.
	InnerWindow *core.Graph
}

// EPRReport splits the fired bridging detectors by where they were resolved.
// Ids are inner graph ids.
type EPRReport struct {
	// InnerResolved lists bridging replicas the inner pass committed, ascending.
	InnerResolved []int
	// Escalated lists bridging replicas left live and flipped on the outer graph.
	Escalated []int
	// Inner is the inner sliding-window report.
	Inner Report
}

// EPR decodes a lattice-surgery merge between a fast (inner) and a slow
// (outer) substrate. Errors inside the inner substrate are handled by a
// sliding window; bridging detectors the inner pass leaves behind are
// escalated to an exact decoder on the outer graph.
type EPR struct {
	inner *SlidingWindow
	outer *Global

	toInner map[int]int // global id → inner id
	toOuter map[int]int // global id → outer id
	corr    *Correspondence
	mask    *bitset.BitSet // inner ids of bridging replicas
	span    int
	bound   int
}

// NewEPR builds an EPR decoder. global supplies only the detector
// coordinates used for id translation.
func NewEPR(global, inner, outer *core.Graph, cfg EPRConfig, opts ...Option) (*EPR, error) {
	if global == nil || inner == nil || outer == nil {
		return nil, fmt.Errorf("%w: global, inner and outer graphs are required", ErrConfiguration)
	}
	corr, err := NewCorrespondence(inner, outer)
	if err != nil {
		return nil, err
	}

	local := cfg.InnerWindow
	if local == nil {
		local = inner
	}
	sw, err := NewSlidingWindow(local, cfg.Inner, opts...)
	if err != nil {
		return nil, fmt.Errorf("decoder: inner: %w", err)
	}
	innerDets, err := inner.Boundary()
	if err != nil {
		return nil, fmt.Errorf("%w: inner: %w", ErrConfiguration, err)
	}
	if innerDets != sw.rounds.Detectors() {
		return nil, fmt.Errorf("%w: inner graph has %d detectors, window parameters describe %d",
			ErrConfiguration, innerDets, sw.rounds.Detectors())
	}
	og, err := NewGlobal(outer, opts...)
	if err != nil {
		return nil, fmt.Errorf("decoder: outer: %w", err)
	}

	e := &EPR{
		inner:   sw,
		outer:   og,
		toInner: make(map[int]int),
		toOuter: make(map[int]int),
		corr:    corr,
		mask:    bitset.New(uint(innerDets)),
		span:    global.IDSpan(),
	}
	if e.bound, err = global.Boundary(); err != nil {
		return nil, fmt.Errorf("%w: global: %w", ErrConfiguration, err)
	}
	for in := range corr.InnerToOuter {
		e.mask.Set(uint(in))
	}

	innerKeys, _, err := keyIndex(inner, "inner")
	if err != nil {
		return nil, err
	}
	outerKeys, _, err := keyIndex(outer, "outer")
	if err != nil {
		return nil, err
	}
	globalKeys, _, err := keyIndex(global, "global")
	if err != nil {
		return nil, err
	}
	for k, id := range globalKeys {
		if in, ok := innerKeys[k]; ok {
			e.toInner[id] = in
		} else if out, ok := outerKeys[k]; ok {
			e.toOuter[id] = out
		} else {
			return nil, fmt.Errorf("%w: global detector %d (base %d, super %d, sub %d) is in neither sub-circuit",
				ErrConfiguration, id, k.base, k.super, k.sub)
		}
	}

	return e, nil
}

// Correspondence returns the bridging detector table.
func (e *EPR) Correspondence() *Correspondence { return e.corr }

// Decode implements Decoder.
func (e *EPR) Decode(dets []int, sink Sink) (*Result, error) {
	res, _, err := e.DecodeReport(dets, sink)

	return res, err
}

// DecodeReport decodes dets and reports how fired bridging detectors were
// resolved.
//
// Steps:
//  1. Split global detectors into inner and outer ids.
//  2. Run the inner sliding window with bridging replicas marked do-not-commit.
//  3. Escalate surviving bridging detectors by flipping their outer replica.
//  4. Decode the outer set exactly and XOR both results.
func (e *EPR) DecodeReport(dets []int, sink Sink) (*Result, EPRReport, error) {
	sink = orNop(sink)
	if err := checkSyndrome(dets, e.span, e.bound); err != nil {
		return nil, EPRReport{}, err
	}

	// 1. Split.
	var innerDets []int
	outerLive := make(map[int]bool)
	for _, d := range dets {
		if in, ok := e.toInner[d]; ok {
			innerDets = append(innerDets, in)
		} else {
			outerLive[e.toOuter[d]] = !outerLive[e.toOuter[d]]
		}
	}
	sort.Ints(innerDets)

	// 2. Inner pass.
	res, rep, err := e.inner.DecodeWithMask(innerDets, e.mask, sink.With("layer", "inner"))
	if err != nil {
		return nil, EPRReport{}, err
	}

	// 3. Escalation.
	report := EPRReport{Inner: rep}
	for _, in := range rep.Residual {
		out, ok := e.corr.InnerToOuter[in]
		if !ok {
			return nil, EPRReport{}, fmt.Errorf("%w: inner detector %d left unresolved", ErrDecoderInternal, in)
		}
		report.Escalated = append(report.Escalated, in)
		outerLive[out] = !outerLive[out]
		if sink.Enabled() {
			sink.Trace("escalate", "inner", in, "outer", out)
		}
	}
	for _, in := range rep.Committed {
		if e.mask.Test(uint(in)) {
			report.InnerResolved = append(report.InnerResolved, in)
		}
	}
	sort.Ints(report.InnerResolved)

	// 4. Outer pass.
	outerDets := make([]int, 0, len(outerLive))
	for id, on := range outerLive {
		if on {
			outerDets = append(outerDets, id)
		}
	}
	sort.Ints(outerDets)
	outRes, err := e.outer.Decode(outerDets, sink.With("layer", "outer"))
	if err != nil {
		return nil, EPRReport{}, err
	}
	res.Xor(outRes)

	return res, report, nil
}
