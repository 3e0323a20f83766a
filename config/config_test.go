package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qudec/config"
	"github.com/katalvlaran/qudec/decoder"
)

func TestParse_OverlaysDefault(t *testing.T) {
	r, err := config.Parse([]byte(`
dem: memory.dem
decoder: sliding
window_dem: window.dem
window: {commit: 2, window: 4, detectors_per_round: 24, rounds: 8}
eval:
  trials: 5000
  stop_after_errors: 50
`))
	require.NoError(t, err)
	require.Equal(t, config.KindSliding, r.Decoder)
	require.Equal(t, "exact", r.Solver)
	require.Equal(t, 24, r.Window.DetectorsPerRound)
	require.Equal(t, uint64(5000), r.Eval.Trials)
	require.Equal(t, uint64(50), r.Eval.StopAfterErrors)
	require.Equal(t, 8192, r.Eval.BatchSize)
	require.Equal(t, 3, r.FPD.ChainLimit)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing dem":       "decoder: global\n",
		"unknown decoder":   "dem: a.dem\ndecoder: unionfind\n",
		"unknown solver":    "dem: a.dem\nsolver: magic\n",
		"unknown key":       "dem: a.dem\nwindows: 3\n",
		"sliding no window": "dem: a.dem\ndecoder: sliding\n",
		"window too small":  "dem: a.dem\ndecoder: sliding\nwindow: {commit: 4, window: 2, detectors_per_round: 1, rounds: 8}\n",
		"epr no models":     "dem: a.dem\ndecoder: epr\nwindow: {commit: 1, window: 2, detectors_per_round: 3, rounds: 4}\n",
		"zero trials":       "dem: a.dem\neval: {trials: 0}\n",
		"chain limit":       "dem: a.dem\nfpd: {chain_limit: 99}\n",
		"bad level":         "dem: a.dem\nlog_level: loud\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(src))
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestDefault_NeedsOnlyModel(t *testing.T) {
	r := config.Default()
	require.ErrorIs(t, r.Validate(), config.ErrInvalid)
	r.DEM = "a.dem"
	require.NoError(t, r.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dem: a.dem
decoder: epr
window: {commit: 1, window: 2, detectors_per_round: 3, rounds: 4}
epr: {inner_dem: in.dem, outer_dem: out.dem}
promatch: {max_rounds: 2}
`), 0o600))

	r, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "in.dem", r.EPR.InnerDEM)
	require.Equal(t, 2, r.Promatch.MaxRounds)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRead_SkipsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decoder: fpd\n"), 0o600))

	r, err := config.Read(path)
	require.NoError(t, err)
	require.Equal(t, config.KindFPD, r.Decoder)
	require.ErrorIs(t, r.Validate(), config.ErrInvalid)

	_, err = config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestSections_ConvertToDecoderParams(t *testing.T) {
	r, err := config.Parse([]byte(`
dem: a.dem
decoder: sliding
window: {commit: 2, window: 4, detectors_per_round: 24, rounds: 8}
fpd: {chain_limit: 2, skip_if_any_without_pref: false}
promatch: {disabled: true, max_rounds: 3}
`))
	require.NoError(t, err)
	require.Equal(t, decoder.WindowParams{Commit: 2, Window: 4, DetectorsPerRound: 24, Rounds: 8}, r.Window.Params())
	require.Equal(t, decoder.FPDConfig{ChainLimit: 2}, r.FPD.Config())
	require.Equal(t, decoder.PromatchConfig{Disabled: true, MaxRounds: 3}, r.Promatch.Config())
	require.Equal(t, decoder.DefaultFPDConfig(), config.Default().FPD.Config())

	// decoder parameter types stay free of file-format tags
	for _, typ := range []reflect.Type{
		reflect.TypeOf(decoder.WindowParams{}),
		reflect.TypeOf(decoder.FPDConfig{}),
		reflect.TypeOf(decoder.PromatchConfig{}),
	} {
		for i := 0; i < typ.NumField(); i++ {
			require.Empty(t, typ.Field(i).Tag, "%s.%s", typ.Name(), typ.Field(i).Name)
		}
	}
}
