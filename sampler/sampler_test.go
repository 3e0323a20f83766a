package sampler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qudec/dem"
	"github.com/katalvlaran/qudec/sampler"
)

func model(t *testing.T, src string) *dem.Model {
	t.Helper()
	m, err := dem.ParseModel(strings.NewReader(src))
	require.NoError(t, err)

	return m
}

func TestSample_CertainMechanisms(t *testing.T) {
	s, err := sampler.New(model(t, `
error(1) D0 D2 L1
error(1) D2 D3
error(0) D1
`), 1)
	require.NoError(t, err)

	shot := s.Sample()
	require.Equal(t, []int{0, 3}, shot.Fired())
	require.Equal(t, 2, shot.HammingWeight())
	require.True(t, shot.Observables.Test(1))
	require.Equal(t, uint(1), shot.Observables.Count())
}

func TestSample_SeedIsReproducible(t *testing.T) {
	m := model(t, "error(0.3) D0 L0\nerror(0.3) D0 D1\nerror(0.3) D1\n")
	a, err := sampler.New(m, 7)
	require.NoError(t, err)
	b, err := sampler.New(m, 7)
	require.NoError(t, err)

	for i, shot := range a.Batch(200) {
		other := b.Sample()
		require.True(t, shot.Detectors.Equal(other.Detectors), "shot %d", i)
		require.True(t, shot.Observables.Equal(other.Observables), "shot %d", i)
	}
}

func TestSample_Frequency(t *testing.T) {
	s, err := sampler.New(model(t, "error(0.25) D0\n"), 3)
	require.NoError(t, err)

	fired := 0
	const n = 20000
	for _, shot := range s.Batch(n) {
		fired += shot.HammingWeight()
	}
	require.InDelta(t, 0.25, float64(fired)/n, 0.02)
}

func TestNew_Errors(t *testing.T) {
	_, err := sampler.New(nil, 0)
	require.ErrorIs(t, err, sampler.ErrNilModel)

	var m dem.Model
	require.NoError(t, m.AddMechanism(1.2, []int{0}, nil))
	_, err = sampler.New(&m, 0)
	require.Error(t, err)
}
