// Package config loads and validates YAML run descriptions for the qudec
// command.
//
// A run names the detector error models to decode, the decoder stack and
// the benchmark settings:
//
//	dem: memory_d5_r10.dem
//	decoder: sliding
//	window_dem: memory_d5_r6.dem
//	window: {commit: 2, window: 5, detectors_per_round: 24, rounds: 10}
//	eval: {trials: 100000, stop_after_errors: 100, workers: 8}
//
// Load starts from Default, overlays the file and validates the result.
package config
