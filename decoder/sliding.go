package decoder

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/qudec/core"
)

// WindowParams configures a SlidingWindow decoder.
type WindowParams struct {
	Commit            int // rounds committed per step
	Window            int // rounds decoded per step
	DetectorsPerRound int
	Rounds            int // rounds in the stream
}

// Report describes what one sliding-window decode resolved.
type Report struct {
	// Committed lists global detector ids in the order they were cleared.
	Committed []int
	// Residual lists detectors still live after the last step, ascending.
	Residual []int
}

// SlidingWindow decodes a stream of rounds through a local window graph,
// committing only the prefix of each window.
type SlidingWindow struct {
	local  *Global
	rounds Rounds
}

// NewSlidingWindow builds a sliding-window decoder over the local graph.
// The local graph's detector ids must be laid out round by round with
// DetectorsPerRound detectors each, followed by the boundary.
func NewSlidingWindow(local *core.Graph, p WindowParams, opts ...Option) (*SlidingWindow, error) {
	g, err := NewGlobal(local, opts...)
	if err != nil {
		return nil, err
	}
	if p.DetectorsPerRound <= 0 {
		return nil, fmt.Errorf("%w: detectors per round must be positive", ErrConfiguration)
	}
	if g.boundary != g.span-1 || g.boundary%p.DetectorsPerRound != 0 {
		return nil, fmt.Errorf("%w: local graph has %d detectors, not a whole number of %d-detector rounds",
			ErrConfiguration, g.boundary, p.DetectorsPerRound)
	}
	rounds, err := NewRounds(p.Commit, p.Window, p.DetectorsPerRound, p.Rounds, g.boundary/p.DetectorsPerRound)
	if err != nil {
		return nil, err
	}

	return &SlidingWindow{local: g, rounds: rounds}, nil
}

// Rounds returns the decoder's round arithmetic.
func (s *SlidingWindow) Rounds() Rounds { return s.rounds }

// Decode implements Decoder.
func (s *SlidingWindow) Decode(dets []int, sink Sink) (*Result, error) {
	res, rep, err := s.DecodeWithMask(dets, nil, sink)
	if err != nil {
		return nil, err
	}
	if len(rep.Residual) > 0 {
		return nil, fmt.Errorf("%w: %d detectors left uncommitted", ErrDecoderInternal, len(rep.Residual))
	}

	return res, nil
}

// DecodeWithMask decodes dets, never committing a pair that touches a
// detector set in doNotCommit. Such detectors stay live and are reported as
// Residual.
//
// This extends the plain commit rule by one step: a committable unmasked
// detector matched to a masked one is committed against the boundary on its
// own, so only masked detectors can remain. Masked pairs and masked
// boundary pairs are never committed.
//
// Each step:
//  1. Collect live detectors of the window; skip the step if none lies in
//     the commit region.
//  2. Match them on the local graph.
//  3. Commit pairs with an endpoint in the commit region, clearing both.
func (s *SlidingWindow) DecodeWithMask(dets []int, doNotCommit *bitset.BitSet, sink Sink) (*Result, Report, error) {
	sink = orNop(sink)
	if err := checkSyndrome(dets, s.rounds.Detectors(), -1); err != nil {
		return nil, Report{}, err
	}

	live := bitset.New(uint(s.rounds.Detectors()))
	for _, d := range dets {
		live.Set(uint(d))
	}
	masked := func(id int) bool {
		return id != BoundaryID && doNotCommit != nil && doNotCommit.Test(uint(id))
	}

	res := NewResult()
	var rep Report
	commit := func(ids ...int) {
		for _, id := range ids {
			if id != BoundaryID {
				live.Clear(uint(id))
				rep.Committed = append(rep.Committed, id)
			}
		}
	}

	for r := 0; !s.rounds.Done(r) && live.Any(); r = s.rounds.Next(r) {
		w := s.rounds.Window(r)

		// 1. Window contents.
		var local []int
		for i, ok := live.NextSet(uint(w.MinID)); ok && int(i) < w.MaxID; i, ok = live.NextSet(i + 1) {
			local = append(local, w.Local(int(i)))
		}
		if len(local) == 0 || w.Global(local[0]) >= w.CommitMaxID {
			continue
		}
		step := sink
		if sink.Enabled() {
			step = sink.With("round", r)
			step.Trace("window", "min", w.MinID, "max", w.MaxID, "commit_max", w.CommitMaxID,
				"offset", w.Offset, "live", len(local))
		}

		// 2. Local matching.
		pairs, err := s.local.Match(local, step)
		if err != nil {
			return nil, Report{}, fmt.Errorf("decoder: window at round %d: %w", r, err)
		}

		// 3. Commit.
		for _, p := range pairs {
			a, b := w.Global(p.A), BoundaryID
			if !p.ToBoundary() {
				b = w.Global(p.B)
			}
			if !w.Commits(a) && !w.Commits(b) {
				continue
			}

			switch ma, mb := masked(a), masked(b); {
			case !ma && !mb:
				res.Xor(p.Obs)
				commit(a, b)
				step.Trace("commit", "a", a, "b", b)
			case p.ToBoundary() || (ma && mb):
				continue
			default:
				n := a
				if ma {
					n = b
				}
				if !w.Commits(n) {
					continue
				}
				bp, err := s.local.toBoundary(w.Local(n))
				if err != nil {
					return nil, Report{}, fmt.Errorf("decoder: window at round %d: %w", r, err)
				}
				res.Xor(bp.Obs)
				commit(n)
				step.Trace("commit to boundary", "det", n, "masked_partner", a+b-n)
			}
		}
	}

	for i, ok := live.NextSet(0); ok; i, ok = live.NextSet(i + 1) {
		rep.Residual = append(rep.Residual, int(i))
	}

	return res, rep, nil
}
