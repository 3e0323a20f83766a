package sampler

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/qudec/dem"
)

// ErrNilModel indicates New was called without a model.
var ErrNilModel = errors.New("sampler: nil model")

// Shot is one sampled syndrome with the observables that actually flipped.
type Shot struct {
	Detectors   *bitset.BitSet
	Observables *bitset.BitSet
}

// Fired returns the fired detector ids in ascending order.
func (s Shot) Fired() []int {
	out := make([]int, 0, s.Detectors.Count())
	for i, ok := s.Detectors.NextSet(0); ok; i, ok = s.Detectors.NextSet(i + 1) {
		out = append(out, int(i))
	}

	return out
}

// HammingWeight returns the number of fired detectors.
func (s Shot) HammingWeight() int {
	return int(s.Detectors.Count())
}

type mechanism struct {
	p    float64
	dets []uint
	obs  []uint
}

// Sampler draws shots from a fixed model with its own random source.
type Sampler struct {
	rng   *rand.Rand
	mechs []mechanism
	nDets uint
	nObs  uint
}

// New returns a Sampler over m seeded with seed. Zero-probability
// mechanisms are dropped; probabilities outside [0, 1] are rejected.
func New(m *dem.Model, seed int64) (*Sampler, error) {
	if m == nil {
		return nil, ErrNilModel
	}

	s := &Sampler{
		rng:   rand.New(rand.NewSource(seed)),
		nDets: uint(m.NumDetectors),
		nObs:  uint(m.NumObservables),
	}
	for _, mech := range m.Mechanisms {
		if mech.Probability < 0 || mech.Probability > 1 {
			return nil, fmt.Errorf("sampler: %v: probability out of range", mech)
		}
		if mech.Probability == 0 {
			continue
		}
		sm := mechanism{p: mech.Probability}
		for _, d := range mech.Detectors {
			sm.dets = append(sm.dets, uint(d))
		}
		for _, o := range mech.Observables {
			sm.obs = append(sm.obs, uint(o))
		}
		s.mechs = append(s.mechs, sm)
	}

	return s, nil
}

// Sample draws one shot.
func (s *Sampler) Sample() Shot {
	shot := Shot{Detectors: bitset.New(s.nDets), Observables: bitset.New(s.nObs)}
	for i := range s.mechs {
		m := &s.mechs[i]
		if s.rng.Float64() >= m.p {
			continue
		}
		for _, d := range m.dets {
			shot.Detectors.Flip(d)
		}
		for _, o := range m.obs {
			shot.Observables.Flip(o)
		}
	}

	return shot
}

// Batch draws n shots.
func (s *Sampler) Batch(n int) []Shot {
	shots := make([]Shot, n)
	for i := range shots {
		shots[i] = s.Sample()
	}

	return shots
}
