// Command qudec builds decoding graphs from detector error models and
// benchmarks the matching decoders on sampled syndromes.
//
//	qudec graph --dem memory.dem
//	qudec bench --dem memory.dem --decoder fpd --trials 100000 --workers 8
//	qudec bench --config run.yaml --reference
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
