// Package diag is the structured side channel for the pipeline's
// non-fatal, logged, continue error policy. Every swallowed condition is
// recorded here so tests can assert on what was skipped and why.
package diag

import "sync"

// Kind classifies a recorded condition.
type Kind string

const (
	// KindReferenceGap: a foreign key was absent from its directory.
	KindReferenceGap Kind = "reference_gap"
	// KindMatchNotFound: no event log across all configured years.
	KindMatchNotFound Kind = "match_not_found"
	// KindTransportFailure: the object store returned an error.
	KindTransportFailure Kind = "transport_failure"
	// KindMalformedLog: an event log could not be decoded.
	KindMalformedLog Kind = "malformed_log"
)

// Event is one recorded condition.
type Event struct {
	Kind   Kind
	Tour   string
	GameID string
	Detail string
}

// Recorder collects events. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByKind filters recorded events to one kind.
func (r *Recorder) ByKind(kind Kind) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
