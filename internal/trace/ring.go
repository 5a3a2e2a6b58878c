package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory. The ring exists to be
// dumped after a failure, so it records by ShouldRecord: at LevelError
// every scope is kept even though nothing streams live.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	writes uint64 // total appended, slot = writes % len(events)
	level  Level
}

// NewRingTracer creates a ring holding the most recent capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{
		events: make([]Event, capacity),
		level:  level,
	}
}

// Emit records the event, overwriting the oldest slot once full.
func (t *RingTracer) Emit(ev Event) {
	if !t.level.ShouldRecord(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.events[t.writes%uint64(len(t.events))] = ev
	t.writes++
}

// Snapshot returns a copy of the stored events in emission order.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	capacity := uint64(len(t.events))
	if t.writes <= capacity {
		out := make([]Event, t.writes)
		copy(out, t.events[:t.writes])
		return out
	}

	// The slot after the newest write holds the oldest event.
	oldest := t.writes % capacity
	out := make([]Event, 0, capacity)
	out = append(out, t.events[oldest:]...)
	out = append(out, t.events[:oldest]...)
	return out
}

// Dump writes the recorded events to w in the given format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(ev, format)); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op; the ring is always current.
func (t *RingTracer) Flush() error { return nil }

// Close is a no-op for RingTracer.
func (t *RingTracer) Close() error { return nil }

// Level returns the recording level.
func (t *RingTracer) Level() Level { return t.level }

// Enabled returns true if the ring records anything at all.
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// FindRing returns the ring backend inside t, if any.
// Used to dump recorded events after a failed run.
func FindRing(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *MultiTracer:
		for _, sub := range tr.backends {
			if r := FindRing(sub); r != nil {
				return r
			}
		}
	}
	return nil
}
