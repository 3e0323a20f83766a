package decoder

import "fmt"

// Rounds holds the round arithmetic of a sliding-window decode: which global
// detector ids form the window and commit region of each step, and how they
// map onto the local window graph.
type Rounds struct {
	Commit            int // rounds committed per step
	Size              int // rounds decoded per step
	DetectorsPerRound int
	Total             int // rounds in the stream
	LocalRounds       int // rounds covered by the local window graph
}

// Window is one step of a sliding-window decode. Ids are global; MaxID and
// CommitMaxID are exclusive.
type Window struct {
	Round       int
	MinID       int
	MaxID       int
	CommitMaxID int
	Offset      int // global id - local id
}

// NewRounds validates the window parameters.
//
// A local graph covering the whole stream is used with offset 0 throughout.
// Otherwise it must cover Size+1 rounds: the first window is decoded at
// offset 0, and every later window starting at round r keeps round r-1 as
// context, at offset (r-1)·DetectorsPerRound.
func NewRounds(commit, window, dpr, total, localRounds int) (Rounds, error) {
	r := Rounds{Commit: commit, Size: window, DetectorsPerRound: dpr, Total: total, LocalRounds: localRounds}
	switch {
	case commit <= 0 || dpr <= 0 || total <= 0:
		return Rounds{}, fmt.Errorf("%w: commit, detectors per round and total rounds must be positive", ErrConfiguration)
	case window < commit:
		return Rounds{}, fmt.Errorf("%w: window %d smaller than commit %d", ErrConfiguration, window, commit)
	case total%commit != 0 || total%window != 0:
		return Rounds{}, fmt.Errorf("%w: total rounds %d must be a multiple of commit %d and window %d",
			ErrConfiguration, total, commit, window)
	case localRounds < total && localRounds < window+1:
		return Rounds{}, fmt.Errorf("%w: local graph spans %d rounds, need %d", ErrConfiguration, localRounds, window+1)
	}

	return r, nil
}

// Window returns the step starting at the given round.
func (r Rounds) Window(round int) Window {
	w := Window{
		Round:       round,
		MinID:       round * r.DetectorsPerRound,
		MaxID:       min(round+r.Size, r.Total) * r.DetectorsPerRound,
		CommitMaxID: min(round+r.Commit, r.Total) * r.DetectorsPerRound,
	}
	if round > 0 && r.LocalRounds < r.Total {
		w.Offset = (round - 1) * r.DetectorsPerRound
	}

	return w
}

// Next returns the round of the step after round.
func (r Rounds) Next(round int) int { return round + r.Commit }

// Done reports whether round is past the end of the stream.
func (r Rounds) Done(round int) bool { return round >= r.Total }

// Detectors returns the number of detectors in the stream.
func (r Rounds) Detectors() int { return r.Total * r.DetectorsPerRound }

// Contains reports whether global id lies in the window.
func (w Window) Contains(id int) bool { return id >= w.MinID && id < w.MaxID }

// Commits reports whether global id lies in the commit region.
func (w Window) Commits(id int) bool { return id >= w.MinID && id < w.CommitMaxID }

// Local maps a global id to the local graph.
func (w Window) Local(id int) int { return id - w.Offset }

// Global maps a local id back to the stream.
func (w Window) Global(local int) int { return local + w.Offset }
