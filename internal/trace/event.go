package trace

import "time"

// Kind discriminates the records a tracer stores.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // start of a timed operation
	KindSpanEnd                   // end of a timed operation
	KindPoint                     // instant event
	KindHeartbeat                 // periodic liveness signal
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope grades events from coarse to fine. A tracer at level sched
// keeps runtime and sched events and drops task and diag detail.
type Scope uint8

const (
	ScopeRuntime Scope = iota + 1 // run lifecycle: boot, shutdown, deadlock
	ScopeSched                    // scheduler decisions: poll, wake, timer fire
	ScopeTask                     // per-task lifecycle: spawn, park, resume, done
	ScopeDiag                     // diagnostic subsystem activity
)

var scopeNames = [...]string{
	ScopeRuntime: "runtime",
	ScopeSched:   "sched",
	ScopeTask:    "task",
	ScopeDiag:    "diag",
}

// String returns the wire name of the scope.
func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record in a trace. Seq is stamped by the emitting site
// via NextSeq; tracers store and format events verbatim.
type Event struct {
	Seq      uint64    // monotonic, process-wide
	Time     time.Time // wall clock at emission
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // nonzero for span begin and end pairs
	ParentID uint64 // enclosing span, 0 at the root
	Task     uint64 // owning task ID, 0 when not task-bound

	Name   string            // "run", "poll", "task.spawn"
	Detail string            // free-form message
	Extra  map[string]string // renderer-visible attachments
}
