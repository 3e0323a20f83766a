package decoder

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Sink receives per-call trace output. Implementations must tolerate calls
// from a single decode at a time; sinks are not shared between calls unless
// they say so.
type Sink interface {
	// Trace records one event with alternating key/value pairs.
	Trace(msg string, keyvals ...interface{})

	// Enabled reports whether Trace does anything. Callers use it to skip
	// building expensive keyvals.
	Enabled() bool

	// With returns a sink that prefixes keyvals to every later event.
	With(keyvals ...interface{}) Sink
}

type nopSink struct{}

func (nopSink) Trace(string, ...interface{}) {}
func (nopSink) Enabled() bool                { return false }
func (n nopSink) With(...interface{}) Sink   { return n }

// Nop returns a sink that discards everything.
func Nop() Sink { return nopSink{} }

// orNop maps a nil sink to Nop.
func orNop(s Sink) Sink {
	if s == nil {
		return nopSink{}
	}

	return s
}

// logSink forwards trace events to a charmbracelet logger at debug level.
type logSink struct {
	l *log.Logger
}

// NewLogSink adapts l into a Sink. Events are logged at debug level, so the
// sink is enabled only when l's level admits debug output. A nil l yields Nop.
func NewLogSink(l *log.Logger) Sink {
	if l == nil {
		return nopSink{}
	}

	return logSink{l: l}
}

func (s logSink) Trace(msg string, keyvals ...interface{}) {
	s.l.Debug(msg, keyvals...)
}

func (s logSink) Enabled() bool {
	return s.l.GetLevel() <= log.DebugLevel
}

func (s logSink) With(keyvals ...interface{}) Sink {
	return logSink{l: s.l.With(keyvals...)}
}

// Event is one recorded trace call.
type Event struct {
	Msg     string
	Keyvals []interface{}
}

// Value returns the value paired with key, or nil.
func (e Event) Value(key string) interface{} {
	for i := 0; i+1 < len(e.Keyvals); i += 2 {
		if k, ok := e.Keyvals[i].(string); ok && k == key {
			return e.Keyvals[i+1]
		}
	}

	return nil
}

// Recorder is an in-memory Sink. Sinks derived with With share the same
// event log. It is safe for concurrent use.
type Recorder struct {
	mu     *sync.Mutex
	events *[]Event
	prefix []interface{}
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, events: &[]Event{}}
}

// Trace implements Sink.
func (r *Recorder) Trace(msg string, keyvals ...interface{}) {
	kv := make([]interface{}, 0, len(r.prefix)+len(keyvals))
	kv = append(kv, r.prefix...)
	kv = append(kv, keyvals...)

	r.mu.Lock()
	*r.events = append(*r.events, Event{Msg: msg, Keyvals: kv})
	r.mu.Unlock()
}

// Enabled implements Sink.
func (r *Recorder) Enabled() bool { return true }

// With implements Sink.
func (r *Recorder) With(keyvals ...interface{}) Sink {
	prefix := make([]interface{}, 0, len(r.prefix)+len(keyvals))
	prefix = append(prefix, r.prefix...)
	prefix = append(prefix, keyvals...)

	return &Recorder{mu: r.mu, events: r.events, prefix: prefix}
}

// Events returns a snapshot of every recorded event.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), (*r.events)...)
}

// Filter returns the recorded events whose message equals msg.
func (r *Recorder) Filter(msg string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Msg == msg {
			out = append(out, e)
		}
	}

	return out
}
