package eval

import (
	"fmt"
	"io"
	"time"
)

// HammingBuckets is the size of the per-weight histograms. Heavier
// syndromes land in the last bucket.
const HammingBuckets = 128

// Stats accumulates the outcome of a benchmark run.
type Stats struct {
	Errors        uint64
	Trials        uint64
	TrivialTrials uint64
	Mismatches    uint64
	TotalTime     time.Duration

	TimeByHammingWeight   [HammingBuckets]time.Duration
	TrialsByHammingWeight [HammingBuckets]uint64
}

// bucket maps a Hamming weight to its histogram index.
func bucket(hw int) int {
	return min(hw, HammingBuckets-1)
}

// Merge adds o into s.
func (s *Stats) Merge(o Stats) {
	s.Errors += o.Errors
	s.Trials += o.Trials
	s.TrivialTrials += o.TrivialTrials
	s.Mismatches += o.Mismatches
	s.TotalTime += o.TotalTime
	for i := range s.TimeByHammingWeight {
		s.TimeByHammingWeight[i] += o.TimeByHammingWeight[i]
		s.TrialsByHammingWeight[i] += o.TrialsByHammingWeight[i]
	}
}

// LogicalErrorRate returns Errors / Trials.
func (s Stats) LogicalErrorRate() float64 {
	return ratio(float64(s.Errors), s.Trials)
}

// MeanTimeMicros returns the mean decode time over all trials.
func (s Stats) MeanTimeMicros() float64 {
	return ratio(micros(s.TotalTime), s.Trials)
}

// MeanTimeMicrosNontrivial returns the mean decode time over trials where
// some detector fired.
func (s Stats) MeanTimeMicrosNontrivial() float64 {
	return ratio(micros(s.TotalTime), s.Trials-s.TrivialTrials)
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func ratio(num float64, den uint64) float64 {
	if den == 0 {
		return 0
	}

	return num / float64(den)
}

// Print writes the summary block.
func (s Stats) Print(w io.Writer) error {
	rows := []struct {
		name  string
		value interface{}
	}{
		{"LOGICAL_ERRORS", s.Errors},
		{"TRIALS", s.Trials},
		{"TRIVIAL_TRIALS", s.TrivialTrials},
		{"REFERENCE_MISMATCHES", s.Mismatches},
		{"LOGICAL_ERROR_RATE", s.LogicalErrorRate()},
		{"MEAN_TIME_US", s.MeanTimeMicros()},
		{"MEAN_TIME_US_NONTRIVIAL", s.MeanTimeMicrosNontrivial()},
	}
	if _, err := fmt.Fprintln(w, "======================== DECODER RESULTS =========================="); err != nil {
		return err
	}
	for _, r := range rows {
		if err := PrintStat(w, r.name, r.value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "===============================================================")

	return err
}

// PrintHammingWeights writes one mean-time row per non-empty bucket.
func (s Stats) PrintHammingWeights(w io.Writer) error {
	for i, n := range s.TrialsByHammingWeight {
		if n == 0 {
			continue
		}
		name := fmt.Sprintf("MEAN_TIME_US_HW_%d", i)
		if i == HammingBuckets-1 {
			name += "+"
		}
		if err := PrintStat(w, name, ratio(micros(s.TimeByHammingWeight[i]), n)); err != nil {
			return err
		}
	}

	return nil
}

// PrintStat writes name left-aligned in 64 columns and value right-aligned
// in 12. Floats below 1e-3 use scientific notation.
func PrintStat(w io.Writer, name string, value interface{}) error {
	var err error
	switch v := value.(type) {
	case float64:
		if v < 1e-3 {
			_, err = fmt.Fprintf(w, "%-64s%12.4e\n", name, v)
		} else {
			_, err = fmt.Fprintf(w, "%-64s%12.8f\n", name, v)
		}
	default:
		_, err = fmt.Fprintf(w, "%-64s%12v\n", name, v)
	}

	return err
}
