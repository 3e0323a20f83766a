package dem

import "fmt"

// blockInfo is the running detector shift while walking a program.
type blockInfo struct {
	idShift    int
	coordShift []float64
}

// Flatten resolves repeat blocks and shift_detectors into a Model with
// globally unique detector ids and absolute coordinates.
//
// Each '^'-separated group of an error instruction becomes its own mechanism
// with the instruction's probability.
func (p *Program) Flatten() (*Model, error) {
	m := &Model{}
	info := &blockInfo{}
	if err := flattenBlock(p.Instructions, m, info); err != nil {
		return nil, err
	}

	return m, nil
}

func flattenBlock(insts []Instruction, m *Model, info *blockInfo) error {
	for i := range insts {
		inst := &insts[i]
		switch inst.Kind {
		case KindError:
			flattenError(inst, m, info)

		case KindDetector:
			coords := make([]float64, max(len(inst.Args), len(info.coordShift)))
			copy(coords, info.coordShift)
			for k, a := range inst.Args {
				coords[k] += a
			}
			for _, t := range inst.Targets {
				if t.Kind != TargetDetector {
					return fmt.Errorf("%w: line %d: detector expects D targets", ErrSyntax, inst.Line)
				}
				m.Detectors = append(m.Detectors, Detector{ID: t.Value + info.idShift, Coords: coords})
				m.noteDetector(t.Value + info.idShift)
			}

		case KindObservable:
			for _, t := range inst.Targets {
				if t.Kind != TargetObservable {
					return fmt.Errorf("%w: line %d: logical_observable expects L targets", ErrSyntax, inst.Line)
				}
				m.noteObservable(t.Value)
			}

		case KindShift:
			for len(info.coordShift) < len(inst.Args) {
				info.coordShift = append(info.coordShift, 0)
			}
			for k, a := range inst.Args {
				info.coordShift[k] += a
			}
			info.idShift += inst.Targets[0].Value

		case KindRepeat:
			for r := 0; r < inst.Count; r++ {
				if err := flattenBlock(inst.Body, m, info); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func flattenError(inst *Instruction, m *Model, info *blockInfo) {
	mech := Mechanism{Probability: inst.Args[0], Line: inst.Line}
	flush := func() {
		m.addMechanism(mech)
		mech = Mechanism{Probability: inst.Args[0], Line: inst.Line}
	}

	for _, t := range inst.Targets {
		switch t.Kind {
		case TargetDetector:
			mech.Detectors = append(mech.Detectors, t.Value+info.idShift)
		case TargetObservable:
			mech.Observables = append(mech.Observables, t.Value)
		case TargetSeparator:
			flush()
		}
	}
	flush()
}
