package decoder_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qudec/decoder"
)

func TestNewRounds_Validation(t *testing.T) {
	cases := []struct {
		name                          string
		commit, window, dpr, total, l int
	}{
		{"zero commit", 0, 4, 5, 8, 5},
		{"zero dpr", 2, 4, 0, 8, 5},
		{"window below commit", 4, 2, 5, 8, 5},
		{"total not a multiple of commit", 3, 3, 5, 8, 5},
		{"total not a multiple of window", 2, 6, 5, 8, 7},
		{"local graph too short", 2, 4, 5, 8, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decoder.NewRounds(tc.commit, tc.window, tc.dpr, tc.total, tc.l)
			require.ErrorIs(t, err, decoder.ErrConfiguration)
		})
	}

	// a local graph spanning the whole stream needs no context round
	_, err := decoder.NewRounds(2, 4, 5, 8, 8)
	require.NoError(t, err)
}

func TestRounds_Windows(t *testing.T) {
	r, err := decoder.NewRounds(2, 4, 5, 8, 5)
	require.NoError(t, err)
	require.Equal(t, decoder.Rounds{Commit: 2, Size: 4, DetectorsPerRound: 5, Total: 8, LocalRounds: 5}, r)
	require.Equal(t, 40, r.Detectors())

	require.Equal(t, decoder.Window{Round: 0, MinID: 0, MaxID: 20, CommitMaxID: 10, Offset: 0}, r.Window(0))
	require.Equal(t, decoder.Window{Round: 2, MinID: 10, MaxID: 30, CommitMaxID: 20, Offset: 5}, r.Window(2))
	require.Equal(t, decoder.Window{Round: 6, MinID: 30, MaxID: 40, CommitMaxID: 40, Offset: 25}, r.Window(6))

	var starts []int
	for s := 0; !r.Done(s); s = r.Next(s) {
		starts = append(starts, s)
	}
	require.Equal(t, []int{0, 2, 4, 6}, starts)

	w := r.Window(2)
	require.True(t, w.Contains(10))
	require.False(t, w.Contains(30))
	require.True(t, w.Commits(19))
	require.False(t, w.Commits(20))
	require.Equal(t, 12, w.Local(17))
	require.Equal(t, 17, w.Global(12))

	full, err := decoder.NewRounds(2, 4, 5, 8, 8)
	require.NoError(t, err)
	for s := 0; !full.Done(s); s = full.Next(s) {
		require.Zero(t, full.Window(s).Offset)
	}
}

func newStreamSliding(t *testing.T) (*decoder.Global, *decoder.SlidingWindow) {
	t.Helper()
	global, err := decoder.NewGlobal(streamGraph(t, 8, 5))
	require.NoError(t, err)
	sw, err := decoder.NewSlidingWindow(streamGraph(t, 5, 5), decoder.WindowParams{
		Commit: 2, Window: 4, DetectorsPerRound: 5, Rounds: 8,
	})
	require.NoError(t, err)

	return global, sw
}

func TestSlidingWindow_MatchesGlobalOnSeparatedErrors(t *testing.T) {
	global, sw := newStreamSliding(t)
	dets := []int{17, 22, 25}

	want, err := global.Decode(dets, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0}, want.Observables())

	rec := decoder.NewRecorder()
	got, rep, err := sw.DecodeWithMask(dets, nil, rec)
	require.NoError(t, err)
	require.True(t, want.Equal(got))
	require.Equal(t, []int{17, 22, 25}, rep.Committed)
	require.Empty(t, rep.Residual)

	// round 0 holds nothing committable, so only rounds 2 and 4 decode
	windows := rec.Filter("window")
	require.Len(t, windows, 2)
	require.Equal(t, 2, windows[0].Value("round"))
	require.Equal(t, 4, windows[1].Value("round"))
}

func TestSlidingWindow_Errors(t *testing.T) {
	params := decoder.WindowParams{Commit: 2, Window: 4, DetectorsPerRound: 5, Rounds: 8}

	_, err := decoder.NewSlidingWindow(graphOf(t, 7, nil), params)
	require.ErrorIs(t, err, decoder.ErrConfiguration)

	_, err = decoder.NewSlidingWindow(streamGraph(t, 4, 5), params)
	require.ErrorIs(t, err, decoder.ErrConfiguration)

	bad := params
	bad.Rounds = 7
	_, err = decoder.NewSlidingWindow(streamGraph(t, 5, 5), bad)
	require.ErrorIs(t, err, decoder.ErrConfiguration)

	_, sw := newStreamSliding(t)
	_, err = sw.Decode([]int{40}, nil)
	require.ErrorIs(t, err, decoder.ErrInvalidSyndrome)
	_, err = sw.Decode([]int{3, 3}, nil)
	require.ErrorIs(t, err, decoder.ErrInvalidSyndrome)
}

// TestSlidingWindow_CommitsEachDetectorOnce checks that every detector is
// cleared exactly once, and with a mask that only masked detectors survive.
func TestSlidingWindow_CommitsEachDetectorOnce(t *testing.T) {
	_, sw := newStreamSliding(t)
	rng := rand.New(rand.NewSource(5))

	for trial := 0; trial < 1000; trial++ {
		dets := randomSyndrome(rng, 40, 0.08)

		var mask *bitset.BitSet
		if trial%2 == 1 {
			mask = bitset.New(40)
			for i := 0; i < 40; i++ {
				if rng.Float64() < 0.2 {
					mask.Set(uint(i))
				}
			}
		}

		_, rep, err := sw.DecodeWithMask(dets, mask, nil)
		require.NoError(t, err, "trial %d", trial)

		seen := make(map[int]int)
		for _, d := range rep.Committed {
			seen[d]++
		}
		for _, d := range rep.Residual {
			seen[d]++
			require.NotNil(t, mask, "trial %d: residual without a mask", trial)
			require.True(t, mask.Test(uint(d)), "trial %d: unmasked residual %d", trial, d)
		}
		require.Len(t, seen, len(dets), "trial %d", trial)
		for _, d := range dets {
			require.Equal(t, 1, seen[d], "trial %d: detector %d", trial, d)
		}
		for _, d := range rep.Committed {
			require.False(t, mask != nil && mask.Test(uint(d)), "trial %d: committed masked %d", trial, d)
		}
		require.True(t, sort.IntsAreSorted(rep.Residual))
	}
}

func TestSlidingWindow_MaskedPairStaysLive(t *testing.T) {
	_, sw := newStreamSliding(t)
	mask := bitset.New(40)
	mask.Set(17).Set(22)

	res, rep, err := sw.DecodeWithMask([]int{17, 22}, mask, nil)
	require.NoError(t, err)
	require.Zero(t, res.Count())
	require.Empty(t, rep.Committed)
	require.Equal(t, []int{17, 22}, rep.Residual)

	_, err = sw.Decode([]int{17, 22}, nil)
	require.NoError(t, err)
}

func TestSlidingWindow_MaskedPartnerCommitsToBoundary(t *testing.T) {
	_, sw := newStreamSliding(t)
	mask := bitset.New(40)
	mask.Set(22)

	rec := decoder.NewRecorder()
	_, rep, err := sw.DecodeWithMask([]int{17, 22}, mask, rec)
	require.NoError(t, err)
	require.Equal(t, []int{17}, rep.Committed)
	require.Equal(t, []int{22}, rep.Residual)

	ev := rec.Filter("commit to boundary")
	require.Len(t, ev, 1)
	require.Equal(t, 17, ev[0].Value("det"))
	require.Equal(t, 22, ev[0].Value("masked_partner"))
	require.Empty(t, rec.Filter("commit"))
}
