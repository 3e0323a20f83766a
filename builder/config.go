// SPDX-License-Identifier: MIT
// Package: qudec/builder
//
// config.go — builder knobs, defaults and functional options.
//
// Defaults:
//   • merge       = MergeProbabilityOR
//   • colorCoord  = 0, flagCoord = 1
//   • logger      = nil (silent)

package builder

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// MergePolicy decides how a mechanism landing on an occupied vertex pair is
// folded into the existing edge.
type MergePolicy int

const (
	// MergeProbabilityOR combines p' = p1(1-p2) + (1-p1)p2 and takes the union
	// of flipped observables.
	MergeProbabilityOR MergePolicy = iota

	// MergeOverwrite keeps only the later mechanism.
	MergeOverwrite
)

// String implements fmt.Stringer.
func (p MergePolicy) String() string {
	switch p {
	case MergeProbabilityOR:
		return "or"
	case MergeOverwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// ParseMergePolicy is the inverse of MergePolicy.String.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch s {
	case "or":
		return MergeProbabilityOR, nil
	case "overwrite":
		return MergeOverwrite, nil
	default:
		return 0, fmt.Errorf("builder: unknown merge policy %q", s)
	}
}

// Defaults for detector metadata extraction.
const (
	defaultColorCoord = 0
	defaultFlagCoord  = 1
)

// builderConfig aggregates the knobs used by Build.
type builderConfig struct {
	merge      MergePolicy
	colorCoord int // coordinate index holding the color id; <0 disables
	flagCoord  int // coordinate index holding the flag bit; <0 disables
	logger     *log.Logger
}

// Option customizes Build.
type Option func(*builderConfig)

func newBuilderConfig(opts ...Option) builderConfig {
	cfg := builderConfig{
		merge:      MergeProbabilityOR,
		colorCoord: defaultColorCoord,
		flagCoord:  defaultFlagCoord,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithMergePolicy selects how duplicate vertex pairs are merged.
// Panics on an unknown policy.
func WithMergePolicy(p MergePolicy) Option {
	if p != MergeProbabilityOR && p != MergeOverwrite {
		panic("builder: WithMergePolicy(unknown)")
	}

	return func(c *builderConfig) { c.merge = p }
}

// WithColorFlagCoords sets the coordinate indices read for detector color and
// flag metadata. A negative index disables that field.
func WithColorFlagCoords(colorIdx, flagIdx int) Option {
	return func(c *builderConfig) {
		c.colorCoord = colorIdx
		c.flagCoord = flagIdx
	}
}

// WithLogger makes Build report skipped and merged mechanisms at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *builderConfig) { c.logger = l }
}
