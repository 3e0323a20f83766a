// Package core provides the pairwise decoding hypergraph used by every
// decoder in qudec.
//
// A decoding graph G = (V,E) has one vertex per detector plus exactly one
// boundary vertex, and one edge per (merged) error mechanism. Mechanisms in a
// surface-code detector error model flip at most two detectors, so the
// hypergraph order is fixed at MaxOrder = 2 and every edge is stored as an
// unordered vertex pair. Single-detector mechanisms are padded with the
// boundary vertex by the builder.
//
// Storage:
//
//   - vertices are indexed by id ([]*Vertex), so a graph built by the
//     builder package is dense: ids 0..n-1 are detectors and n is the boundary;
//   - adjacency[u] lists every edge incident to u, in insertion order;
//   - edges are kept in insertion order and carry a stable integer ID.
//
// Options:
//
//	– WithMultiEdges()
//	    Allows more than one edge on the same vertex pair. Decoding graphs never
//	    enable this; it exists so that UniqueEdge's invariant check can be
//	    exercised on a deliberately corrupted graph.
//
//	– WithCapacity(v, e)
//	    Pre-sizes the vertex and edge storage.
//
// Core methods:
//
//	AddVertex(v Vertex) error                         // O(1) amortized
//	AddEdge(u, v int, d EdgeData) (*Edge, error)      // O(deg(u))
//	AddEdgeOf(ids []int, d EdgeData) (*Edge, error)   // order-checked form
//	UniqueEdge(u, v int) (*Edge, error)               // O(deg(u))
//	Neighbors(u int) ([]*Edge, error)                 // O(1), shared slice
//	Boundary() (int, error)                           // O(1)
//
// Concurrency:
//
//	A single sync.RWMutex guards vertices, edges and adjacency. Graphs are
//	built once and then only read, so concurrent decoders can share one.
//
// Errors:
//
//	ErrBadVertexID, ErrDuplicateVertex, ErrVertexNotFound, ErrEdgeNotFound,
//	ErrLoopNotAllowed, ErrMultiEdgeNotAllowed, ErrBadOrder,
//	ErrNonUniqueEdge, ErrNoBoundary, ErrMultipleBoundaries.
package core
