package decoder

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Result is the set of logical observables a decode predicts as flipped.
// The zero value is an empty result.
type Result struct {
	bits bitset.BitSet
}

// NewResult returns a result with the given observables flipped once each.
func NewResult(obs ...int) *Result {
	r := &Result{}
	for _, o := range obs {
		r.Flip(o)
	}

	return r
}

// Flip toggles observable i.
func (r *Result) Flip(i int) {
	r.bits.Flip(uint(i))
}

// FlipAll toggles every observable in obs.
func (r *Result) FlipAll(obs []int) {
	for _, o := range obs {
		r.Flip(o)
	}
}

// Has reports whether observable i is flipped.
func (r *Result) Has(i int) bool {
	return i >= 0 && r.bits.Test(uint(i))
}

// Xor folds o into r. A nil o is a no-op.
func (r *Result) Xor(o *Result) {
	if o == nil {
		return
	}
	r.bits.InPlaceSymmetricDifference(&o.bits)
}

// Observables returns the flipped observable indices in ascending order.
func (r *Result) Observables() []int {
	out := make([]int, 0, r.bits.Count())
	for i, ok := r.bits.NextSet(0); ok; i, ok = r.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}

	return out
}

// Count returns the number of flipped observables.
func (r *Result) Count() int {
	return int(r.bits.Count())
}

// Equal reports whether r and o flip the same observables regardless of the
// underlying bit length.
func (r *Result) Equal(o *Result) bool {
	if o == nil {
		return r.Count() == 0
	}
	diff := r.bits.SymmetricDifference(&o.bits)

	return diff.None()
}

// Bits returns a copy of the underlying bit set.
func (r *Result) Bits() *bitset.BitSet {
	return r.bits.Clone()
}

// Clone returns an independent copy of r.
func (r *Result) Clone() *Result {
	c := &Result{}
	r.bits.CopyFull(&c.bits)

	return c
}

// String implements fmt.Stringer.
func (r *Result) String() string {
	return fmt.Sprint(r.Observables())
}
