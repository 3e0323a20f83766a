// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Vertex, Edge, Graph, GraphOption, sentinel errors and NewGraph.

package core

import (
	"errors"
	"sync"
)

// MaxOrder is the largest number of vertices an edge may connect.
const MaxOrder = 2

// Sentinel errors for core graph operations.
var (
	// ErrBadVertexID indicates a negative vertex id.
	ErrBadVertexID = errors.New("core: vertex id must be non-negative")

	// ErrDuplicateVertex indicates AddVertex was called twice with the same id.
	ErrDuplicateVertex = errors.New("core: vertex id already in use")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates that no edge joins the requested vertex pair.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrLoopNotAllowed indicates an edge from a vertex to itself.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a second edge on an occupied vertex pair.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")

	// ErrBadOrder indicates an edge with fewer than 2 or more than MaxOrder vertices.
	ErrBadOrder = errors.New("core: edge order out of range")

	// ErrNonUniqueEdge indicates that more than one edge joins a vertex pair
	// that must be joined by at most one. It signals a corrupted decoding graph.
	ErrNonUniqueEdge = errors.New("core: invariant violation: non-unique edge")

	// ErrNoBoundary indicates the graph has no boundary vertex.
	ErrNoBoundary = errors.New("core: graph has no boundary vertex")

	// ErrMultipleBoundaries indicates a second boundary vertex was added.
	ErrMultipleBoundaries = errors.New("core: graph already has a boundary vertex")
)

// Color is detector color metadata. It is preserved for diagnostics and
// never consulted by decode logic.
type Color uint8

const (
	// ColorNone marks an uncolored detector.
	ColorNone Color = iota
	// ColorRed is color index 1 in circuit coordinates.
	ColorRed
	// ColorGreen is color index 2.
	ColorGreen
	// ColorBlue is color index 3.
	ColorBlue
)

// Vertex is a detector (or the boundary) in a decoding graph.
type Vertex struct {
	// ID is the dense detector index.
	ID int

	// Boundary marks the single virtual vertex absorbing one-detector mechanisms.
	Boundary bool

	// Color and Flag are optional circuit metadata.
	Color Color
	Flag  bool

	// Coords are the resolved detector coordinates (may be nil).
	Coords []float64
}

// EdgeData is the payload of an error mechanism.
type EdgeData struct {
	// Probability of the mechanism, in (0,1].
	Probability float64

	// Weight is the quantized matching weight round(-100·ln p).
	Weight int64

	// Observables lists the flipped logical observables in ascending order.
	Observables []int
}

// Edge is an undirected error mechanism between two vertices.
//
// Edges returned by a Graph are shared; callers outside the builder must
// treat them as read-only.
type Edge struct {
	// ID is the insertion index of the edge.
	ID int

	// U and V are the endpoints, U < V.
	U, V int

	EdgeData
}

// Other returns the endpoint opposite to v.
func (e *Edge) Other(v int) int {
	if e.U == v {
		return e.V
	}

	return e.U
}

// Joins reports whether the edge connects exactly {u, v}.
func (e *Edge) Joins(u, v int) bool {
	return (e.U == u && e.V == v) || (e.U == v && e.V == u)
}

// GraphOption configures a Graph before creation.
type GraphOption func(g *Graph)

// WithMultiEdges permits parallel edges between the same vertices.
func WithMultiEdges() GraphOption {
	return func(g *Graph) { g.allowMulti = true }
}

// WithCapacity pre-sizes vertex and edge storage.
// Panics if either argument is negative.
func WithCapacity(vertices, edges int) GraphOption {
	if vertices < 0 || edges < 0 {
		panic("core: WithCapacity requires non-negative sizes")
	}

	return func(g *Graph) {
		g.vertices = make([]*Vertex, 0, vertices)
		g.adjacency = make([][]*Edge, 0, vertices)
		g.edges = make([]*Edge, 0, edges)
	}
}

// Graph is the pairwise decoding hypergraph.
//
// vertices[id] is nil for ids that were skipped; a graph is dense when no
// such hole exists. boundary is -1 until a boundary vertex is added.
type Graph struct {
	mu sync.RWMutex // guards everything below

	allowMulti bool

	vertices  []*Vertex
	nVertices int
	edges     []*Edge
	adjacency [][]*Edge // adjacency[u] = edges incident to u
	boundary  int
}

// NewGraph creates an empty Graph with the given options.
// Complexity: O(1) plus any pre-sizing requested.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{boundary: -1}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
