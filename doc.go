// Package qudec is a toolkit for decoding quantum error-correction syndromes
// with minimum-weight perfect matching over detector error models.
//
// 🚀 What is qudec?
//
//	A set of small, thread-safe packages that take a detector error model
//	from text to a decoded observable flip:
//		• Parsing: detector error models with repeat blocks and shifts
//		• Graphs: a decoding graph with one boundary vertex and quantized weights
//		• Shortest paths: Dijkstra with path observables for matching costs
//		• Matching: exact, blossom, bitmask DP and greedy solvers
//		• Decoders: Global, SlidingWindow, EPR, FPD and Promatch
//		• Evaluation: Monte-Carlo sampling, logical error rates, timings
//
// Under the hood, everything is organized under these subpackages:
//
//	dem/       — model text parser and flattener
//	core/      — Graph, Vertex, Edge types & thread-safe primitives
//	builder/   — Model → decoding graph, probability merge policies
//	bfs/       — reachability of detectors from the boundary
//	dijkstra/  — single-source shortest paths with target-set early stop
//	matching/  — minimum-weight perfect matching solvers
//	decoder/   — the five decoders and their trace sinks
//	sampler/   — independent-mechanism syndrome sampler
//	eval/      — parallel trial harness, stats and Prometheus metrics
//	config/    — YAML run configuration with validation
//	cmd/qudec  — command-line front end (graph, bench)
//
// Quick ASCII example:
//
//	    D0───D1───D2
//	    │          │
//	    B──────────┘
//
//	three detectors on a line, each end joined to the boundary B.
//	Syndrome {D0, D1} is matched as one pair; {D1} alone is matched
//	through the cheaper side to B.
//
//	go install github.com/katalvlaran/qudec/cmd/qudec@latest
package qudec
