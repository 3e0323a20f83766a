// SPDX-License-Identifier: MIT
// Package: qudec/builder
//
// errors.go — sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables (package-level) are exposed.
//   • Callers use errors.Is(err, ErrX) to branch on semantics.
//   • Context is attached with %w at the failure site.
//   • Build never panics; validation panics are confined to option
//     constructors (WithX...).

package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/qudec/dem"
)

// ErrMalformedModel indicates a mechanism the decoding graph cannot express:
// one flipping observables without any detector, or one touching zero or
// more than two detectors. The wrapped message lists every offender.
var ErrMalformedModel = errors.New("builder: malformed detector error model")

// ErrInvalidProbability indicates a mechanism probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNilModel indicates Build was called with a nil model.
var ErrNilModel = errors.New("builder: model is nil")

// malformed wraps ErrMalformedModel with a dump of the offending mechanisms.
func malformed(reason string, mechs []dem.Mechanism) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d mechanisms):", reason, len(mechs))
	for _, m := range mechs {
		sb.WriteString("\n\t")
		sb.WriteString(m.String())
	}

	return fmt.Errorf("%w: %s", ErrMalformedModel, sb.String())
}
