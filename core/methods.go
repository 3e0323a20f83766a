// SPDX-License-Identifier: MIT
//
// File: methods.go
// Role: Vertex and edge lifecycle plus read-only queries.
// Determinism:
//   - Vertices() is ordered by id, Edges() and Neighbors() by insertion.
// Concurrency:
//   - Mutations take the write lock, queries the read lock.

package core

import "fmt"

// AddVertex inserts v at index v.ID.
//
// Steps:
//  1. Reject negative ids (ErrBadVertexID).
//  2. Grow storage up to v.ID, leaving holes for skipped ids.
//  3. Reject an occupied slot (ErrDuplicateVertex).
//  4. Record the boundary; a second one fails with ErrMultipleBoundaries.
//
// Complexity: O(1) amortized.
func (g *Graph) AddVertex(v Vertex) error {
	if v.ID < 0 {
		return fmt.Errorf("%w: %d", ErrBadVertexID, v.ID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for len(g.vertices) <= v.ID {
		g.vertices = append(g.vertices, nil)
		g.adjacency = append(g.adjacency, nil)
	}
	if g.vertices[v.ID] != nil {
		return fmt.Errorf("%w: %d", ErrDuplicateVertex, v.ID)
	}
	if v.Boundary && g.boundary >= 0 {
		return fmt.Errorf("%w: have %d, got %d", ErrMultipleBoundaries, g.boundary, v.ID)
	}

	vc := v
	g.vertices[v.ID] = &vc
	g.nVertices++
	if v.Boundary {
		g.boundary = v.ID
	}

	return nil
}

// AddEdgeOf adds an edge given as a vertex list, checking its order first.
// The list must hold between 2 and MaxOrder ids (ErrBadOrder).
func (g *Graph) AddEdgeOf(ids []int, data EdgeData) (*Edge, error) {
	if len(ids) < 2 || len(ids) > MaxOrder {
		return nil, fmt.Errorf("%w: order %d", ErrBadOrder, len(ids))
	}

	return g.AddEdge(ids[0], ids[1], data)
}

// AddEdge joins u and v with a new edge carrying data.
//
// Steps:
//  1. Reject self-loops (ErrLoopNotAllowed).
//  2. Both endpoints must exist (ErrVertexNotFound).
//  3. Without WithMultiEdges an occupied pair fails (ErrMultiEdgeNotAllowed).
//  4. Store the edge with U < V and link it into both adjacency lists.
//
// Complexity: O(deg(u)) for the multi-edge scan.
func (g *Graph) AddEdge(u, v int, data EdgeData) (*Edge, error) {
	if u == v {
		return nil, fmt.Errorf("%w: %d", ErrLoopNotAllowed, u)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasVertexLocked(u) {
		return nil, fmt.Errorf("%w: %d", ErrVertexNotFound, u)
	}
	if !g.hasVertexLocked(v) {
		return nil, fmt.Errorf("%w: %d", ErrVertexNotFound, v)
	}

	if !g.allowMulti {
		for _, e := range g.adjacency[u] {
			if e.Joins(u, v) {
				return nil, fmt.Errorf("%w: (%d,%d)", ErrMultiEdgeNotAllowed, u, v)
			}
		}
	}

	if u > v {
		u, v = v, u
	}
	e := &Edge{ID: len(g.edges), U: u, V: v, EdgeData: data}
	g.edges = append(g.edges, e)
	g.adjacency[u] = append(g.adjacency[u], e)
	g.adjacency[v] = append(g.adjacency[v], e)

	return e, nil
}

// UniqueEdge returns the only edge joining exactly {u, v}.
//
// Returns ErrEdgeNotFound if no edge joins them and ErrNonUniqueEdge if more
// than one does; the latter means the decoding graph is corrupted.
//
// Complexity: O(deg(u)).
func (g *Graph) UniqueEdge(u, v int) (*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.hasVertexLocked(u) {
		return nil, fmt.Errorf("%w: %d", ErrVertexNotFound, u)
	}

	var found *Edge
	for _, e := range g.adjacency[u] {
		if !e.Joins(u, v) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrNonUniqueEdge, u, v)
		}
		found = e
	}
	if found == nil {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrEdgeNotFound, u, v)
	}

	return found, nil
}

// HasVertex reports whether id is a vertex of g.
func (g *Graph) HasVertex(id int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.hasVertexLocked(id)
}

func (g *Graph) hasVertexLocked(id int) bool {
	return id >= 0 && id < len(g.vertices) && g.vertices[id] != nil
}

// Vertex returns the vertex with the given id.
func (g *Graph) Vertex(id int) (*Vertex, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.hasVertexLocked(id) {
		return nil, fmt.Errorf("%w: %d", ErrVertexNotFound, id)
	}

	return g.vertices[id], nil
}

// Neighbors returns the edges incident to u. The slice is shared and must
// not be modified.
func (g *Graph) Neighbors(u int) ([]*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.hasVertexLocked(u) {
		return nil, fmt.Errorf("%w: %d", ErrVertexNotFound, u)
	}

	return g.adjacency[u], nil
}

// Vertices returns all vertices ordered by id.
func (g *Graph) Vertices() []*Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Vertex, 0, g.nVertices)
	for _, v := range g.vertices {
		if v != nil {
			out = append(out, v)
		}
	}

	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.nVertices
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// IDSpan returns one past the largest vertex id. For a dense graph it
// equals VertexCount and bounds every id-indexed slice.
func (g *Graph) IDSpan() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.vertices)
}

// Dense reports whether ids 0..VertexCount()-1 are all present.
func (g *Graph) Dense() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.nVertices == len(g.vertices)
}

// Boundary returns the id of the boundary vertex.
func (g *Graph) Boundary() (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.boundary < 0 {
		return -1, ErrNoBoundary
	}

	return g.boundary, nil
}

// Stats is a point-in-time summary used by diagnostics.
type Stats struct {
	Vertices int
	Edges    int
	Boundary int
	MaxDeg   int
}

// Stats returns vertex/edge counts, the boundary id (-1 if none) and the
// largest vertex degree. Complexity: O(V).
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := Stats{Vertices: g.nVertices, Edges: len(g.edges), Boundary: g.boundary}
	for _, adj := range g.adjacency {
		if len(adj) > s.MaxDeg {
			s.MaxDeg = len(adj)
		}
	}

	return s
}
