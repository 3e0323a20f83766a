// SPDX-License-Identifier: MIT
// Package core_test verifies core.Graph method-level contracts.

package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qudec/core"
)

// triangle builds {0, 1, boundary=2} with one edge per pair.
func triangle(t *testing.T, opts ...core.GraphOption) *core.Graph {
	t.Helper()
	g := core.NewGraph(opts...)
	require.NoError(t, g.AddVertex(core.Vertex{ID: 0}))
	require.NoError(t, g.AddVertex(core.Vertex{ID: 1}))
	require.NoError(t, g.AddVertex(core.Vertex{ID: 2, Boundary: true}))
	_, err := g.AddEdge(0, 1, core.EdgeData{Probability: 0.01, Observables: []int{0}})
	require.NoError(t, err)
	_, err = g.AddEdge(0, 2, core.EdgeData{Probability: 0.02})
	require.NoError(t, err)
	_, err = g.AddEdge(2, 1, core.EdgeData{Probability: 0.02, Observables: []int{1}})
	require.NoError(t, err)

	return g
}

func TestAddVertex_Validation(t *testing.T) {
	g := core.NewGraph()
	require.ErrorIs(t, g.AddVertex(core.Vertex{ID: -1}), core.ErrBadVertexID)
	require.NoError(t, g.AddVertex(core.Vertex{ID: 3}))
	require.ErrorIs(t, g.AddVertex(core.Vertex{ID: 3}), core.ErrDuplicateVertex)

	// holes make the graph sparse until filled
	require.False(t, g.Dense())
	require.Equal(t, 4, g.IDSpan())
	require.Equal(t, 1, g.VertexCount())
	for id := 0; id < 3; id++ {
		require.NoError(t, g.AddVertex(core.Vertex{ID: id}))
	}
	require.True(t, g.Dense())
}

func TestBoundary(t *testing.T) {
	g := core.NewGraph()
	_, err := g.Boundary()
	require.ErrorIs(t, err, core.ErrNoBoundary)

	require.NoError(t, g.AddVertex(core.Vertex{ID: 0, Boundary: true}))
	require.ErrorIs(t, g.AddVertex(core.Vertex{ID: 1, Boundary: true}), core.ErrMultipleBoundaries)

	b, err := g.Boundary()
	require.NoError(t, err)
	require.Equal(t, 0, b)
}

func TestAddEdge_Constraints(t *testing.T) {
	g := triangle(t)

	_, err := g.AddEdge(1, 1, core.EdgeData{})
	require.ErrorIs(t, err, core.ErrLoopNotAllowed)

	_, err = g.AddEdge(0, 9, core.EdgeData{})
	require.ErrorIs(t, err, core.ErrVertexNotFound)

	_, err = g.AddEdge(1, 0, core.EdgeData{})
	require.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)

	_, err = g.AddEdgeOf([]int{0}, core.EdgeData{})
	require.ErrorIs(t, err, core.ErrBadOrder)
	_, err = g.AddEdgeOf([]int{0, 1, 2}, core.EdgeData{})
	require.ErrorIs(t, err, core.ErrBadOrder)
}

func TestAddEdge_NormalizesEndpoints(t *testing.T) {
	g := triangle(t)
	e, err := g.UniqueEdge(1, 2)
	require.NoError(t, err)
	require.Equal(t, 1, e.U)
	require.Equal(t, 2, e.V)
	require.Equal(t, 2, e.Other(1))
	require.Equal(t, 1, e.Other(2))
	require.Equal(t, []int{1}, e.Observables)
}

func TestUniqueEdge(t *testing.T) {
	g := triangle(t)

	e, err := g.UniqueEdge(1, 0)
	require.NoError(t, err)
	require.Equal(t, 0, e.ID)

	require.NoError(t, g.AddVertex(core.Vertex{ID: 3}))
	_, err = g.UniqueEdge(0, 3)
	require.ErrorIs(t, err, core.ErrEdgeNotFound)

	_, err = g.UniqueEdge(7, 0)
	require.ErrorIs(t, err, core.ErrVertexNotFound)
}

func TestUniqueEdge_InvariantViolation(t *testing.T) {
	g := triangle(t, core.WithMultiEdges())
	_, err := g.AddEdge(0, 1, core.EdgeData{Probability: 0.5})
	require.NoError(t, err)

	_, err = g.UniqueEdge(0, 1)
	require.ErrorIs(t, err, core.ErrNonUniqueEdge)
}

func TestQueries(t *testing.T) {
	g := triangle(t, core.WithCapacity(3, 3))

	nbs, err := g.Neighbors(0)
	require.NoError(t, err)
	require.Len(t, nbs, 2)

	_, err = g.Neighbors(5)
	require.ErrorIs(t, err, core.ErrVertexNotFound)

	vs := g.Vertices()
	require.Len(t, vs, 3)
	for i, v := range vs {
		require.Equal(t, i, v.ID)
	}
	require.True(t, vs[2].Boundary)

	es := g.Edges()
	require.Len(t, es, 3)
	for i, e := range es {
		require.Equal(t, i, e.ID)
	}

	v, err := g.Vertex(2)
	require.NoError(t, err)
	require.True(t, v.Boundary)

	st := g.Stats()
	require.Equal(t, core.Stats{Vertices: 3, Edges: 3, Boundary: 2, MaxDeg: 2}, st)
}

func TestWithCapacity_PanicsOnNegative(t *testing.T) {
	require.Panics(t, func() { core.WithCapacity(-1, 0) })
}

// TestConcurrentReads ensures read-only queries can run from many goroutines.
func TestConcurrentReads(t *testing.T) {
	g := core.NewGraph()
	const n = 64
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddVertex(core.Vertex{ID: i}))
	}
	for i := 0; i+1 < n; i++ {
		_, err := g.AddEdge(i, i+1, core.EdgeData{Probability: 0.1})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if id+1 < n {
				if _, err := g.UniqueEdge(id, id+1); err != nil {
					errs <- fmt.Errorf("edge %d: %w", id, err)
				}
			}
			if _, err := g.Neighbors(id); err != nil {
				errs <- err
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
