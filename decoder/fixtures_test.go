package decoder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qudec/builder"
	"github.com/katalvlaran/qudec/core"
	"github.com/katalvlaran/qudec/dem"
)

// testEdge is u-v with a weight and flipped observables; v == -1 means the
// boundary.
type testEdge struct {
	u, v int
	w    int64
	obs  []int
}

// graphOf builds detectors 0..n-1, boundary n and the given edges.
func graphOf(t testing.TB, n int, edges []testEdge) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddVertex(core.Vertex{ID: i}))
	}
	require.NoError(t, g.AddVertex(core.Vertex{ID: n, Boundary: true}))
	for _, e := range edges {
		v := e.v
		if v < 0 {
			v = n
		}
		_, err := g.AddEdge(e.u, v, core.EdgeData{Weight: e.w, Observables: e.obs})
		require.NoError(t, err)
	}

	return g
}

// streamModel is a repetition-code memory experiment: dpr detectors per
// round in a line, the left end flipping observable 0 when it hits the
// boundary.
func streamModel(rounds, dpr int) *dem.Model {
	m := &dem.Model{}
	id := func(r, i int) int { return r*dpr + i }
	for r := 0; r < rounds; r++ {
		for i := 0; i < dpr; i++ {
			_ = m.AddDetector(id(r, i), float64(i), float64(r))
			if i+1 < dpr {
				_ = m.AddMechanism(0.01, []int{id(r, i), id(r, i+1)}, nil)
			}
			if r+1 < rounds {
				_ = m.AddMechanism(0.01, []int{id(r, i), id(r+1, i)}, nil)
			}
		}
		_ = m.AddMechanism(0.01, []int{id(r, 0)}, []int{0})
		_ = m.AddMechanism(0.01, []int{id(r, dpr-1)}, nil)
	}

	return m
}

func streamGraph(t testing.TB, rounds, dpr int) *core.Graph {
	t.Helper()
	g, err := builder.Build(streamModel(rounds, dpr), builder.WithColorFlagCoords(-1, -1))
	require.NoError(t, err)

	return g
}

// eprFixture builds the three graphs of a merge over four rounds:
//
//	inner: bases 0 1 2 per round, base 0 flips L0 at the boundary
//	outer: bases 2 3 4 per round, base 2 flips L1 at the boundary
//	global: bases 0..4 per round, coordinates only
//
// Base 2 is the bridging base.
func eprFixture(t testing.TB) (global, inner, outer *core.Graph) {
	t.Helper()
	const rounds = 4
	coords := func(r, base int) []float64 { return []float64{0, float64(r), float64(base), 0, float64(r)} }

	sub := func(bases []int, bObs map[int][]int) *core.Graph {
		g := core.NewGraph()
		n := len(bases)
		for r := 0; r < rounds; r++ {
			for j, b := range bases {
				require.NoError(t, g.AddVertex(core.Vertex{ID: r*n + j, Coords: coords(r, b)}))
			}
		}
		bound := rounds * n
		require.NoError(t, g.AddVertex(core.Vertex{ID: bound, Boundary: true}))
		for r := 0; r < rounds; r++ {
			for j := range bases {
				id := r*n + j
				if j+1 < n {
					_, err := g.AddEdge(id, id+1, core.EdgeData{Weight: 100})
					require.NoError(t, err)
				}
				if r+1 < rounds {
					_, err := g.AddEdge(id, id+n, core.EdgeData{Weight: 100})
					require.NoError(t, err)
				}
			}
			for j, b := range bases {
				if obs, ok := bObs[b]; ok {
					_, err := g.AddEdge(r*n+j, bound, core.EdgeData{Weight: 100, Observables: obs})
					require.NoError(t, err)
				}
			}
		}

		return g
	}

	inner = sub([]int{0, 1, 2}, map[int][]int{0: {0}, 2: nil})
	outer = sub([]int{2, 3, 4}, map[int][]int{2: {1}, 4: nil})

	global = core.NewGraph()
	for r := 0; r < rounds; r++ {
		for b := 0; b < 5; b++ {
			require.NoError(t, global.AddVertex(core.Vertex{ID: r*5 + b, Coords: coords(r, b)}))
		}
	}
	require.NoError(t, global.AddVertex(core.Vertex{ID: rounds * 5, Boundary: true}))

	return global, inner, outer
}
