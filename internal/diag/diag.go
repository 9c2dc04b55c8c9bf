// Package diag records diagnostic events that are kept out of normal output.
package diag

import (
	"sync"
	"time"

	"github.com/pders01/lockview/internal/logging"
	"github.com/pders01/lockview/internal/metrics"
	"github.com/pders01/lockview/internal/models"
)

// Anomaly kinds reported while reconciling a diff
const (
	UnexpectedPath  = "unexpected-path"
	ChangedRequest  = "changed-request"
	UnhandledAction = "unhandled-action"
)

// Event describes one diff entry that was dropped
type Event struct {
	Kind    string           `json:"kind"`
	Message string           `json:"message"`
	Entry   models.DiffEntry `json:"entry"`
	Time    time.Time        `json:"time"`
}

// Recorder accepts diagnostic events
type Recorder interface {
	Record(Event)
}

// Discard is a Recorder that drops everything
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(Event) {}

// Stream keeps every recorded event, counts them per kind, and fans them out
// to subscribers. Publishing never blocks; slow subscribers lose events.
type Stream struct {
	mu          sync.RWMutex
	events      []Event
	counts      map[string]int
	subscribers map[chan Event]struct{}
}

// NewStream creates an empty stream
func NewStream() *Stream {
	return &Stream{
		counts:      make(map[string]int),
		subscribers: make(map[chan Event]struct{}),
	}
}

// Record stores, logs, counts and publishes an event
func (s *Stream) Record(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	logging.Debug("diff anomaly",
		logging.String("kind", e.Kind),
		logging.String("message", e.Message),
		logging.String("action", e.Entry.Action),
		logging.Strings("path", e.Entry.Path),
	)
	metrics.RecordAnomaly(e.Kind)

	s.mu.Lock()
	s.events = append(s.events, e)
	s.counts[e.Kind]++
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a channel receiving future events.
// The caller must call Unsubscribe when done.
func (s *Stream) Subscribe() chan Event {
	ch := make(chan Event, 64)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel
func (s *Stream) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	delete(s.subscribers, ch)
	close(ch)
	s.mu.Unlock()
}

// Events returns a copy of everything recorded so far
func (s *Stream) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Count returns the number of events of the given kind, or of all kinds if
// kind is empty
func (s *Stream) Count(kind string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if kind == "" {
		return len(s.events)
	}
	return s.counts[kind]
}
