// Package decoder turns fired detectors into predicted observable flips.
//
// Every decoder implements
//
//	Decode(dets []int, sink Sink) (*Result, error)
//
// where dets are sorted detector ids of the decoder's graph and sink receives
// optional per-call trace output (nil is a valid no-op sink).
//
// Decoders:
//
//	Global        – exact minimum-weight perfect matching over shortest paths
//	SlidingWindow – streams rounds through a local graph, committing a prefix
//	                of each window
//	EPR           – inner sliding window on a fast substrate, escalating
//	                bridging detectors to a Global decoder on the slow one
//	FPD           – resolves mutually-preferred pairs from a chain cache,
//	                delegating the rest
//	Promatch      – greedily peels isolated adjacent pairs, delegating the rest
//
// Construction state (graphs, caches, correspondence tables) is read-only
// after New*; each Decode call owns its working state, so a decoder may be
// used from several goroutines at once. Wrapped decoders are owned by their
// wrapper and must not be shared.
package decoder
