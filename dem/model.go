package dem

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for model construction and parsing.
var (
	// ErrSyntax indicates malformed model text; wrapped errors carry the line.
	ErrSyntax = errors.New("dem: syntax error")

	// ErrBadID indicates a negative detector or observable id.
	ErrBadID = errors.New("dem: negative id")
)

// Detector is a declared detector with its absolute coordinates.
type Detector struct {
	ID     int
	Coords []float64
}

// Mechanism is one independent error: with Probability it flips every listed
// detector and observable.
type Mechanism struct {
	Probability float64
	Detectors   []int
	Observables []int

	// Line is the source line for parsed models, 0 otherwise.
	Line int
}

// String renders the mechanism in model text form.
func (m Mechanism) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error(%g)", m.Probability)
	for _, d := range m.Detectors {
		fmt.Fprintf(&sb, " D%d", d)
	}
	for _, o := range m.Observables {
		fmt.Fprintf(&sb, " L%d", o)
	}
	if m.Line > 0 {
		fmt.Fprintf(&sb, " (line %d)", m.Line)
	}

	return sb.String()
}

// Model is a flattened detector error model.
type Model struct {
	// NumDetectors is one past the largest detector id declared or referenced.
	NumDetectors int
	// NumObservables is one past the largest observable id referenced.
	NumObservables int

	Detectors  []Detector
	Mechanisms []Mechanism
}

// AddDetector declares detector id with coordinates.
func (m *Model) AddDetector(id int, coords ...float64) error {
	if id < 0 {
		return fmt.Errorf("%w: D%d", ErrBadID, id)
	}
	m.Detectors = append(m.Detectors, Detector{ID: id, Coords: coords})
	m.noteDetector(id)

	return nil
}

// AddMechanism appends an error mechanism. Slices are copied.
func (m *Model) AddMechanism(p float64, detectors, observables []int) error {
	for _, d := range detectors {
		if d < 0 {
			return fmt.Errorf("%w: D%d", ErrBadID, d)
		}
	}
	for _, o := range observables {
		if o < 0 {
			return fmt.Errorf("%w: L%d", ErrBadID, o)
		}
	}

	mech := Mechanism{
		Probability: p,
		Detectors:   append([]int(nil), detectors...),
		Observables: append([]int(nil), observables...),
	}
	m.addMechanism(mech)

	return nil
}

func (m *Model) addMechanism(mech Mechanism) {
	for _, d := range mech.Detectors {
		m.noteDetector(d)
	}
	for _, o := range mech.Observables {
		m.noteObservable(o)
	}
	m.Mechanisms = append(m.Mechanisms, mech)
}

func (m *Model) noteDetector(id int) {
	if id+1 > m.NumDetectors {
		m.NumDetectors = id + 1
	}
}

func (m *Model) noteObservable(id int) {
	if id+1 > m.NumObservables {
		m.NumObservables = id + 1
	}
}

// ObservableOnly returns every mechanism that flips an observable without
// touching any detector. Such errors are invisible to a decoder.
func (m *Model) ObservableOnly() []Mechanism {
	var bad []Mechanism
	for _, mech := range m.Mechanisms {
		if len(mech.Detectors) == 0 && len(mech.Observables) > 0 {
			bad = append(bad, mech)
		}
	}

	return bad
}

// DetectorCoords returns detector id → coordinates for declared detectors.
func (m *Model) DetectorCoords() map[int][]float64 {
	out := make(map[int][]float64, len(m.Detectors))
	for _, d := range m.Detectors {
		out[d.ID] = d.Coords
	}

	return out
}

// SortedDetectors returns the declared detectors ordered by id.
func (m *Model) SortedDetectors() []Detector {
	out := append([]Detector(nil), m.Detectors...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
