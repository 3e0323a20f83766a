// Package eval benchmarks a decoder against sampled ground truth.
//
// A Harness splits the requested trials into batches, samples each batch
// from the detector error model with its own seed (Config.Seed plus the
// batch index) and decodes the shots on a bounded pool of goroutines.
// Per-batch seeding keeps the sampled shots independent of the worker count.
//
// For every trial the harness records:
//
//	errors          prediction differs from the flipped observables
//	trivial trials  no detector fired; nothing is decoded
//	decode time     total and per Hamming weight of the syndrome (128 buckets)
//	mismatches      prediction differs from an optional reference decoder
//
// Results are returned as Stats, mirrored into Prometheus collectors when a
// Metrics value is supplied, and logged per batch.
package eval
