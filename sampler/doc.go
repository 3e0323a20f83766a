// Package sampler draws Monte-Carlo shots from a detector error model.
//
// Every mechanism fires independently with its probability; a shot is the
// XOR of the detector and observable sets of the mechanisms that fired.
// This is the statistical content of a frame simulation of the circuit the
// model was compiled from, which is all a decoder benchmark needs.
//
//	s, _ := sampler.New(model, 42)
//	for _, shot := range s.Batch(8192) {
//		res, _ := dec.Decode(shot.Fired(), nil)
//		...
//	}
//
// A Sampler is not safe for concurrent use; give each goroutine its own,
// seeded independently.
package sampler
