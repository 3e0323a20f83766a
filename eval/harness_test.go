package eval_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/qudec/builder"
	"github.com/katalvlaran/qudec/decoder"
	"github.com/katalvlaran/qudec/dem"
	"github.com/katalvlaran/qudec/eval"
)

// constant predicts the same observables for every syndrome.
type constant struct {
	res *decoder.Result
	err error
}

func (c constant) Decode([]int, decoder.Sink) (*decoder.Result, error) {
	if c.err != nil {
		return nil, c.err
	}

	return c.res.Clone(), nil
}

type HarnessSuite struct {
	suite.Suite
	model  *dem.Model
	global *decoder.Global
}

func (s *HarnessSuite) SetupTest() {
	m, err := dem.ParseModel(strings.NewReader(`
error(0.05) D0 L0
error(0.05) D0 D1
error(0.05) D1 D2
error(0.05) D2
`))
	s.Require().NoError(err)
	g, err := builder.Build(m)
	s.Require().NoError(err)
	s.global, err = decoder.NewGlobal(g)
	s.Require().NoError(err)
	s.model = m
}

func (s *HarnessSuite) TestStatsAreConsistent() {
	cfg := eval.Config{Trials: 2000, BatchSize: 300, Workers: 3, Seed: 4}
	h, err := eval.New(s.model, s.global, cfg)
	s.Require().NoError(err)

	st, err := h.Run(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(2000), st.Trials)
	s.LessOrEqual(st.Errors, st.Trials)
	s.Equal(st.TrivialTrials, st.TrialsByHammingWeight[0])

	var sum uint64
	for _, n := range st.TrialsByHammingWeight {
		sum += n
	}
	s.Equal(st.Trials, sum)
	s.Greater(st.TrivialTrials, uint64(0))
}

func (s *HarnessSuite) TestWorkerCountDoesNotChangeOutcome() {
	run := func(workers int) eval.Stats {
		cfg := eval.Config{Trials: 1500, BatchSize: 128, Workers: workers, Seed: 9, DisableClock: true}
		h, err := eval.New(s.model, s.global, cfg)
		s.Require().NoError(err)
		st, err := h.Run(context.Background())
		s.Require().NoError(err)

		return st
	}

	one, four := run(1), run(4)
	s.Equal(one, four)
	s.Zero(one.TotalTime)
}

func (s *HarnessSuite) TestStopAfterErrors() {
	m, err := dem.ParseModel(strings.NewReader("error(1) D0 L0\n"))
	s.Require().NoError(err)

	reg := prometheus.NewRegistry()
	metrics := eval.NewMetrics(reg)
	cfg := eval.Config{Trials: 100, BatchSize: 3, Workers: 1, StopAfterErrors: 5}
	h, err := eval.New(m, constant{res: decoder.NewResult()}, cfg, eval.WithMetrics(metrics))
	s.Require().NoError(err)

	st, err := h.Run(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(5), st.Trials)
	s.Equal(uint64(5), st.Errors)
	s.Equal(float64(5), testutil.ToFloat64(metrics.Trials.WithLabelValues(eval.OutcomeError)))
	s.Equal(float64(0), testutil.ToFloat64(metrics.Trials.WithLabelValues(eval.OutcomeCorrect)))
}

func (s *HarnessSuite) TestReferenceMismatches() {
	m, err := dem.ParseModel(strings.NewReader("error(1) D0 L0\n"))
	s.Require().NoError(err)
	g, err := builder.Build(m)
	s.Require().NoError(err)
	ref, err := decoder.NewGlobal(g)
	s.Require().NoError(err)

	reg := prometheus.NewRegistry()
	metrics := eval.NewMetrics(reg)
	cfg := eval.Config{Trials: 10, BatchSize: 4, Workers: 2}
	h, err := eval.New(m, constant{res: decoder.NewResult()}, cfg,
		eval.WithReference(ref), eval.WithMetrics(metrics))
	s.Require().NoError(err)

	st, err := h.Run(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(10), st.Mismatches)
	s.Equal(uint64(10), st.Errors)
	s.Equal(float64(10), testutil.ToFloat64(metrics.Mismatches))

	// the reference itself is always right here
	h, err = eval.New(m, ref, cfg, eval.WithReference(ref))
	s.Require().NoError(err)
	st, err = h.Run(context.Background())
	s.Require().NoError(err)
	s.Zero(st.Mismatches)
	s.Zero(st.Errors)
}

func (s *HarnessSuite) TestDecodeErrorAbortsRun() {
	m, err := dem.ParseModel(strings.NewReader("error(1) D0 L0\n"))
	s.Require().NoError(err)
	boom := errors.New("boom")

	h, err := eval.New(m, constant{err: boom}, eval.Config{Trials: 10, BatchSize: 5, Workers: 2})
	s.Require().NoError(err)
	_, err = h.Run(context.Background())
	s.ErrorIs(err, boom)
}

func (s *HarnessSuite) TestCanceledContext() {
	h, err := eval.New(s.model, s.global, eval.DefaultConfig())
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st, err := h.Run(ctx)
	s.ErrorIs(err, context.Canceled)
	s.Zero(st.Trials)
}

func TestHarnessSuite(t *testing.T) {
	suite.Run(t, new(HarnessSuite))
}

func TestNew_Validation(t *testing.T) {
	m := &dem.Model{}
	dec := constant{res: decoder.NewResult()}

	_, err := eval.New(nil, dec, eval.DefaultConfig())
	require.ErrorIs(t, err, eval.ErrInvalidConfig)
	_, err = eval.New(m, nil, eval.DefaultConfig())
	require.ErrorIs(t, err, eval.ErrInvalidConfig)
	_, err = eval.New(m, dec, eval.Config{Trials: 1, BatchSize: 1})
	require.ErrorIs(t, err, eval.ErrInvalidConfig)

	require.Panics(t, func() { eval.WithReference(nil) })

	h, err := eval.New(m, dec, eval.DefaultConfig())
	require.NoError(t, err)
	require.NotEqual(t, h.RunID().String(), "")
}
