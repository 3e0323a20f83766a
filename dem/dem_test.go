package dem_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qudec/dem"
)

func TestParseModel_Basic(t *testing.T) {
	src := `
# two detectors, one observable
error(0.01) D0 D1 L0
error(0.02) D1
detector(1, 0, 0) D0
detector(3, 0, 0) D1
logical_observable L0
`
	m, err := dem.ParseModel(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, m.NumDetectors)
	require.Equal(t, 1, m.NumObservables)
	require.Len(t, m.Mechanisms, 2)

	require.InDelta(t, 0.01, m.Mechanisms[0].Probability, 1e-12)
	require.Equal(t, []int{0, 1}, m.Mechanisms[0].Detectors)
	require.Equal(t, []int{0}, m.Mechanisms[0].Observables)
	require.Equal(t, 3, m.Mechanisms[0].Line)

	require.Equal(t, []int{1}, m.Mechanisms[1].Detectors)
	require.Empty(t, m.Mechanisms[1].Observables)

	coords := m.DetectorCoords()
	require.Equal(t, []float64{3, 0, 0}, coords[1])
}

func TestParseModel_SeparatorSplits(t *testing.T) {
	m, err := dem.ParseModel(strings.NewReader("error(0.1) D0 ^ D1 L2\n"))
	require.NoError(t, err)
	require.Len(t, m.Mechanisms, 2)
	require.Equal(t, []int{0}, m.Mechanisms[0].Detectors)
	require.Equal(t, []int{1}, m.Mechanisms[1].Detectors)
	require.Equal(t, []int{2}, m.Mechanisms[1].Observables)
	require.Equal(t, 3, m.NumObservables)
}

func TestParseModel_TagsAreDropped(t *testing.T) {
	m, err := dem.ParseModel(strings.NewReader("error[leak](0.1) D0\n"))
	require.NoError(t, err)
	require.Len(t, m.Mechanisms, 1)
}

func TestParseModel_RepeatAndShift(t *testing.T) {
	src := `
detector(0, 0, 0) D0
repeat 3 {
    error(0.01) D0 D1
    detector(0, 0, 1) D1
    shift_detectors(0, 0, 1) 1
}
detector(5, 5, 0) D1
`
	m, err := dem.ParseModel(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Mechanisms, 3)
	require.Equal(t, []int{0, 1}, m.Mechanisms[0].Detectors)
	require.Equal(t, []int{1, 2}, m.Mechanisms[1].Detectors)
	require.Equal(t, []int{2, 3}, m.Mechanisms[2].Detectors)

	// after three shifts the trailing D1 is global id 4 at round 3
	coords := m.DetectorCoords()
	require.Equal(t, []float64{0, 0, 1}, coords[1])
	require.Equal(t, []float64{0, 0, 3}, coords[3])
	require.Equal(t, []float64{5, 5, 3}, coords[4])
	require.Equal(t, 5, m.NumDetectors)

	sorted := m.SortedDetectors()
	for i := 1; i < len(sorted); i++ {
		require.Less(t, sorted[i-1].ID, sorted[i].ID)
	}
}

func TestParseModel_NestedRepeat(t *testing.T) {
	src := `
repeat 2 {
    repeat 2 {
        error(0.1) D0
        shift_detectors 1
    }
}
`
	m, err := dem.ParseModel(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Mechanisms, 4)
	for i, mech := range m.Mechanisms {
		require.Equal(t, []int{i}, mech.Detectors)
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	cases := map[string]string{
		"unknown instruction": "qubit_coords(0) 1\n",
		"unmatched brace":     "}\n",
		"open repeat":         "repeat 2 {\nerror(0.1) D0\n",
		"bad repeat":          "repeat x {\n}\n",
		"bad target":          "error(0.1) Q7\n",
		"missing probability": "error D0\n",
		"bad shift":           "shift_detectors(0) D1\n",
		"bare number":         "error(0.1) D0 5\n",
		"bad argument":        "detector(a) D0\n",
		"unbalanced":          "error)0.1( D0\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := dem.ParseModel(strings.NewReader(src))
			require.ErrorIs(t, err, dem.ErrSyntax)
		})
	}
}

func TestParse_ErrorCarriesLine(t *testing.T) {
	_, err := dem.Parse(strings.NewReader("error(0.1) D0\n\nbogus D1\n"))
	require.ErrorIs(t, err, dem.ErrSyntax)
	require.Contains(t, err.Error(), "line 3")
}

func TestModel_AddAndObservableOnly(t *testing.T) {
	var m dem.Model
	require.NoError(t, m.AddDetector(2, 1, 1))
	require.NoError(t, m.AddMechanism(0.1, []int{0, 2}, nil))
	require.NoError(t, m.AddMechanism(0.2, nil, []int{1}))
	require.ErrorIs(t, m.AddMechanism(0.2, []int{-1}, nil), dem.ErrBadID)
	require.ErrorIs(t, m.AddMechanism(0.2, nil, []int{-1}), dem.ErrBadID)
	require.ErrorIs(t, m.AddDetector(-3), dem.ErrBadID)

	require.Equal(t, 3, m.NumDetectors)
	require.Equal(t, 2, m.NumObservables)

	bad := m.ObservableOnly()
	require.Len(t, bad, 1)
	require.Equal(t, "error(0.2) L1", bad[0].String())
}

func TestAddMechanism_CopiesSlices(t *testing.T) {
	var m dem.Model
	dets := []int{0, 1}
	require.NoError(t, m.AddMechanism(0.1, dets, nil))
	dets[0] = 9
	require.Equal(t, []int{0, 1}, m.Mechanisms[0].Detectors)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dem")
	require.NoError(t, os.WriteFile(path, []byte("error(0.5) D0 L0\n"), 0o600))

	m, err := dem.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, m.Mechanisms, 1)

	_, err = dem.ReadFile(filepath.Join(t.TempDir(), "missing.dem"))
	require.Error(t, err)
}
