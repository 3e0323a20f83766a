// Package dijkstra implements single-source shortest paths on decoding graphs
// with non-negative edge weights.
//
// Overview:
//
//   - Dijkstra computes the minimum-cost path from one source vertex to every
//     reachable vertex in O((V + E) log V) time using a lazy min-heap.
//   - Vertex ids are dense slice indices, so distances and predecessors are
//     returned as slices rather than maps.
//   - Decoders usually only care about a handful of fired detectors. With
//     WithTargets the search stops as soon as every target vertex has been
//     finalized, instead of draining the whole queue.
//
// Key features:
//
//   - WithWeightFn: pick the edge cost (defaults to the quantized Edge.Weight).
//   - WithTargets: early termination once a target set is exhausted.
//   - WithMaxDistance: never finalize vertices farther than a cap.
//   - WithInfEdgeThreshold: edges at or above a threshold are impassable.
//   - Path: rebuild the vertex sequence src→dst from the predecessor slice.
//
// Unreachable vertices keep Dist == Inf and Prev == -1.
package dijkstra
