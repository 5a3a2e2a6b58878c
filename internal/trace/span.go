package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global event sequence number. Every emitted
// event gets one so interleaved backends can be merged by order.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a process-unique span ID.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// wants reports whether the tracer keeps events of this scope at all.
func wants(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldRecord(scope)
}

// emit stamps the wall clock and sequence number on ev and hands it to
// the tracer. Emission funnels through here so Seq reflects true
// emission order across goroutines.
func emit(t Tracer, ev Event) {
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	t.Emit(ev)
}

// Span tracks one timed operation between Begin and End. It keeps the
// identity fields of its events as a template; begin and end differ
// only in kind, detail and extras.
type Span struct {
	tracer  Tracer
	base    Event
	started time.Time
	extra   map[string]string
}

// Begin emits a span-begin event and returns the span handle. parent
// is the enclosing span's ID (0 at the root); task binds the span to a
// scheduler task (0 when it is not task-bound). A filtered scope
// returns nil; all Span methods are nil-safe.
func Begin(t Tracer, scope Scope, name string, parent, task uint64) *Span {
	if !wants(t, scope) {
		return nil
	}
	s := &Span{
		tracer: t,
		base: Event{
			Scope:    scope,
			SpanID:   NextSpanID(),
			ParentID: parent,
			Task:     task,
			Name:     name,
		},
		started: time.Now(),
	}
	begin := s.base
	begin.Kind = KindSpanBegin
	emit(t, begin)
	return s
}

// End emits the span-end event and returns how long the span ran.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	elapsed := time.Since(s.started)
	end := s.base
	end.Kind = KindSpanEnd
	end.Detail = detail
	end.Extra = s.extra
	emit(s.tracer, end)
	return elapsed
}

// WithExtra attaches a key-value pair to the span's end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil {
		return nil
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for a filtered span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.base.SpanID
}

// Point emits an instant event bound to the given task (0 for none).
func Point(t Tracer, scope Scope, name, detail string, task uint64) {
	if !wants(t, scope) {
		return
	}
	emit(t, Event{Kind: KindPoint, Scope: scope, Task: task, Name: name, Detail: detail})
}
