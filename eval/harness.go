package eval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/qudec/decoder"
	"github.com/katalvlaran/qudec/dem"
	"github.com/katalvlaran/qudec/sampler"
)

// ErrInvalidConfig indicates a Harness was built with unusable settings.
var ErrInvalidConfig = errors.New("eval: invalid configuration")

// Config controls a benchmark run.
type Config struct {
	Trials          uint64 `yaml:"trials" validate:"gt=0"`
	BatchSize       int    `yaml:"batch_size" validate:"gt=0"`
	Workers         int    `yaml:"workers" validate:"gte=1"`
	StopAfterErrors uint64 `yaml:"stop_after_errors"` // 0 runs every trial
	Seed            int64  `yaml:"seed"`
	DisableClock    bool   `yaml:"disable_clock"`
}

// DefaultConfig returns 100000 trials in batches of 8192 on one worker.
func DefaultConfig() Config {
	return Config{Trials: 100000, BatchSize: 8192, Workers: 1}
}

// Option configures a Harness.
type Option func(*Harness)

// WithReference compares every prediction against ref and counts
// disagreements. Panics on nil.
func WithReference(ref decoder.Decoder) Option {
	if ref == nil {
		panic("eval: WithReference(nil)")
	}

	return func(h *Harness) { h.ref = ref }
}

// WithLogger sets the progress logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithMetrics mirrors every trial into m.
func WithMetrics(m *Metrics) Option {
	return func(h *Harness) { h.metrics = m }
}

// Harness runs a decoder over sampled trials.
type Harness struct {
	model   *dem.Model
	dec     decoder.Decoder
	cfg     Config
	ref     decoder.Decoder
	logger  *log.Logger
	metrics *Metrics
	runID   uuid.UUID
}

// New returns a Harness decoding shots of m with dec. dec must be safe for
// concurrent use when cfg.Workers > 1.
func New(m *dem.Model, dec decoder.Decoder, cfg Config, opts ...Option) (*Harness, error) {
	switch {
	case m == nil || dec == nil:
		return nil, fmt.Errorf("%w: model and decoder are required", ErrInvalidConfig)
	case cfg.Trials == 0 || cfg.BatchSize <= 0 || cfg.Workers <= 0:
		return nil, fmt.Errorf("%w: trials, batch size and workers must be positive", ErrInvalidConfig)
	}

	h := &Harness{model: m, dec: dec, cfg: cfg, runID: uuid.New()}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = log.New(io.Discard)
	}
	h.logger = h.logger.With("run", h.runID.String())

	return h, nil
}

// RunID identifies this harness in logs.
func (h *Harness) RunID() uuid.UUID { return h.runID }

// Run decodes Config.Trials shots, or stops once StopAfterErrors logical
// errors were seen. The Stats gathered so far are returned with any error.
//
// Steps:
//  1. Launch one goroutine per batch, at most Workers at a time.
//  2. Each batch samples its shots from its own seed and decodes them.
//  3. Merge batch Stats under a lock.
func (h *Harness) Run(ctx context.Context) (Stats, error) {
	var (
		mu     sync.Mutex
		total  Stats
		errCnt atomic.Uint64
	)
	stopped := func() bool {
		return h.cfg.StopAfterErrors > 0 && errCnt.Load() >= h.cfg.StopAfterErrors
	}

	size := uint64(h.cfg.BatchSize)
	batches := (h.cfg.Trials + size - 1) / size
	h.logger.Info("benchmark started", "trials", h.cfg.Trials, "batches", batches, "workers", h.cfg.Workers)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Workers)
	for b := uint64(0); b < batches; b++ {
		if gctx.Err() != nil || stopped() {
			break
		}
		b := b
		n := min(size, h.cfg.Trials-b*size)
		g.Go(func() error {
			if gctx.Err() != nil || stopped() {
				return nil
			}
			st, err := h.batch(gctx, b, n, &errCnt, stopped)

			mu.Lock()
			total.Merge(st)
			done, errs := total.Trials, total.Errors
			mu.Unlock()
			if err != nil {
				return err
			}
			h.logger.Info("batch done", "batch", b, "trials", done, "errors", errs)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}
	if err := ctx.Err(); err != nil {
		return total, err
	}

	h.logger.Info("benchmark finished", "trials", total.Trials, "errors", total.Errors,
		"ler", total.LogicalErrorRate(), "elapsed", time.Since(start))

	return total, nil
}

// batch samples and decodes n shots seeded by Seed+index.
func (h *Harness) batch(ctx context.Context, index, n uint64, errCnt *atomic.Uint64, stopped func() bool) (Stats, error) {
	var st Stats
	s, err := sampler.New(h.model, h.cfg.Seed+int64(index))
	if err != nil {
		return st, err
	}

	for i := uint64(0); i < n; i++ {
		if ctx.Err() != nil || stopped() {
			break
		}
		shot := s.Sample()
		fired := shot.Fired()
		hw := len(fired)

		st.Trials++
		st.TrialsByHammingWeight[bucket(hw)]++
		if h.metrics != nil {
			h.metrics.HammingWeight.Observe(float64(hw))
		}

		actual := decoder.NewResult()
		for o, ok := shot.Observables.NextSet(0); ok; o, ok = shot.Observables.NextSet(o + 1) {
			actual.Flip(int(o))
		}

		pred := decoder.NewResult()
		if hw == 0 {
			st.TrivialTrials++
		} else {
			var t0 time.Time
			if !h.cfg.DisableClock {
				t0 = time.Now()
			}
			pred, err = h.dec.Decode(fired, nil)
			if err != nil {
				return st, fmt.Errorf("eval: batch %d trial %d: %w", index, i, err)
			}
			if !h.cfg.DisableClock {
				dt := time.Since(t0)
				st.TotalTime += dt
				st.TimeByHammingWeight[bucket(hw)] += dt
				if h.metrics != nil {
					h.metrics.DecodeTime.Observe(dt.Seconds())
				}
			}

			if h.ref != nil {
				want, err := h.ref.Decode(fired, nil)
				if err != nil {
					return st, fmt.Errorf("eval: batch %d trial %d: reference: %w", index, i, err)
				}
				if !want.Equal(pred) {
					st.Mismatches++
					if h.metrics != nil {
						h.metrics.Mismatches.Inc()
					}
					h.logger.Debug("reference mismatch", "batch", index, "trial", i,
						"dets", fired, "prediction", pred, "reference", want)
				}
			}
		}

		outcome := OutcomeCorrect
		switch {
		case !pred.Equal(actual):
			st.Errors++
			errCnt.Add(1)
			outcome = OutcomeError
		case hw == 0:
			outcome = OutcomeTrivial
		}
		if h.metrics != nil {
			h.metrics.Trials.WithLabelValues(outcome).Inc()
		}
	}

	return st, nil
}
