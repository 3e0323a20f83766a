// SPDX-License-Identifier: MIT
// Package builder turns a detector error model into a decoding graph.
//
// Build validates the model, allocates one vertex per detector plus a single
// boundary vertex, inserts one edge per error mechanism and finally quantizes
// every edge probability into an integer matching weight:
//
//	weight = round(-100 · ln p)
//
// Mechanisms touching one detector are padded with the boundary. Mechanisms
// landing on an occupied vertex pair are merged according to the MergePolicy
// (probability-OR with the union of observables by default), so the result
// holds at most one edge per unordered pair.
//
// Errors follow the sentinel policy:
//
//	g, err := builder.Build(m)
//	if errors.Is(err, builder.ErrMalformedModel) { ... }
package builder
