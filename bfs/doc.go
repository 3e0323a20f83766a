// Package bfs provides breadth-first search over a core.Graph, returning
// hop distances, parent links and visit order.
//
// What
//
//   - Explore vertices in non-decreasing hop count from a start vertex.
//   - Result holds Order (visit sequence), Depth and Parent, both indexed by
//     vertex id with -1 for unreached vertices.
//   - Neighbors can be skipped with WithFilterNeighbor; WithMaxDepth bounds
//     the search.
//
// Why
//
//   - Reachability checks on decoding graphs: every detector should reach
//     the boundary, otherwise some syndromes have no perfect matching.
//   - Hop-bounded neighbourhoods of a detector.
//
// Determinism
//
//	core.Neighbors returns edges in insertion order, and BFS enqueues
//	neighbors in that order, so the visit sequence is reproducible.
//
// Complexity (V = |Vertices|, E = |Edges|)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
package bfs
