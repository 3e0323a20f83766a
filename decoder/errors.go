package decoder

import "errors"

// Sentinel errors for decoder construction and decoding.
var (
	// ErrConfiguration indicates bad construction parameters: window sizes,
	// missing graphs, or inner/outer detectors that do not correspond.
	ErrConfiguration = errors.New("decoder: bad configuration")

	// ErrDecoderInternal indicates a decode that cannot complete: an odd
	// residual, an incomplete matching, or a detector left unresolved. It
	// aborts the current trial only.
	ErrDecoderInternal = errors.New("decoder: internal error")

	// ErrInvalidSyndrome indicates a detector id outside the decoder's graph.
	ErrInvalidSyndrome = errors.New("decoder: invalid syndrome")
)
