// Package dem holds detector error models: the flattened list of detectors
// and independent error mechanisms a decoder is built from.
//
// A Model is normally produced by an external circuit compiler. This package
// reads the compiler's text output:
//
//	# comments are ignored
//	error(0.001) D0 D1 L0        # one mechanism, flips D0, D1 and observable 0
//	error(0.002) D2 ^ D3 L1      # '^' splits into two mechanisms of equal p
//	detector(1, 0, 0) D0         # coordinates for detector 0
//	logical_observable L0
//	shift_detectors(0, 0, 1) 4   # later ids +4, later coordinates +(0,0,1)
//	repeat 10 {
//	    error(0.001) D0 D4
//	    shift_detectors(0, 0, 1) 4
//	}
//
// Parse returns the instruction tree (Program); Flatten resolves repeat
// blocks and detector shifts into globally unique ids and absolute
// coordinates. ReadFile and ParseModel do both.
package dem
