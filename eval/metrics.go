package eval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Trial outcome label values.
const (
	OutcomeTrivial = "trivial"
	OutcomeCorrect = "correct"
	OutcomeError   = "logical_error"
)

// Metrics mirrors Stats into Prometheus collectors.
type Metrics struct {
	Trials        *prometheus.CounterVec
	Mismatches    prometheus.Counter
	DecodeTime    prometheus.Histogram
	HammingWeight prometheus.Histogram
}

// NewMetrics registers the harness collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Trials: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qudec_eval_trials_total",
			Help: "Decoded trials by outcome",
		}, []string{"outcome"}),
		Mismatches: f.NewCounter(prometheus.CounterOpts{
			Name: "qudec_eval_reference_mismatches_total",
			Help: "Trials where the reference decoder predicted differently",
		}),
		DecodeTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "qudec_eval_decode_duration_seconds",
			Help:    "Time to decode one non-trivial syndrome",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
		HammingWeight: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "qudec_eval_syndrome_hamming_weight",
			Help:    "Fired detectors per trial",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 127},
		}),
	}
}
