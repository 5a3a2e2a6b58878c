package trace

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer reports Enabled() = true")
	}
}

func TestNewRingMode(t *testing.T) {
	tr, err := New(Config{Level: LevelDebug, Mode: ModeRing, RingSize: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("New(ring) = %T, want *RingTracer", tr)
	}
}

func TestNewBothMode(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("New(both) = %T, want *MultiTracer", tr)
	}
	ring := FindRing(multi)
	if ring == nil {
		t.Fatal("both mode carries no ring backend")
	}

	Point(tr, ScopeRuntime, "boot", "", 0)
	if !strings.Contains(buf.String(), "boot") {
		t.Fatalf("stream output %q does not mention boot", buf.String())
	}
	if got := len(ring.Snapshot()); got != 1 {
		t.Fatalf("ring recorded %d events, want 1", got)
	}
}

func TestNewUnknownMode(t *testing.T) {
	if _, err := New(Config{Level: LevelDebug}); err == nil {
		t.Fatal("expected error for zero storage mode")
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want StorageMode
	}{
		{"stream", ModeStream},
		{"STREAM", ModeStream},
		{"ring", ModeRing},
		{"both", ModeBoth},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMode(tc.in)
			if err != nil {
				t.Fatalf("ParseMode(%q): unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseMode(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	if _, err := ParseMode("file"); err == nil {
		t.Fatal("ParseMode(\"file\"): expected error, got nil")
	}
}

func TestStreamFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelSched, FormatText)

	st.Emit(Event{Kind: KindPoint, Scope: ScopeTask, Name: "task.park"})
	if buf.Len() != 0 {
		t.Fatalf("task-scope event streamed at sched level: %q", buf.String())
	}

	st.Emit(Event{Kind: KindPoint, Scope: ScopeSched, Name: "poll"})
	if !strings.Contains(buf.String(), "poll") {
		t.Fatalf("sched-scope event missing from output: %q", buf.String())
	}
}

func TestSpanNopWhenScopeFiltered(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelSched, FormatText)

	span := Begin(st, ScopeTask, "poll", 0, 1)
	span.End("")
	if buf.Len() != 0 {
		t.Fatalf("filtered span produced output: %q", buf.String())
	}
	if span.ID() != 0 {
		t.Fatalf("filtered span carries ID %d, want 0", span.ID())
	}
}

func TestSpanEmitsBeginAndEnd(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	span := Begin(ring, ScopeRuntime, "run", 0, 0)
	span.WithExtra("tasks", "2")
	span.End("ok")

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Kind != KindSpanBegin || events[1].Kind != KindSpanEnd {
		t.Fatalf("kinds = %v/%v, want begin/end", events[0].Kind, events[1].Kind)
	}
	if events[0].SpanID == 0 || events[0].SpanID != events[1].SpanID {
		t.Fatalf("span IDs %d/%d do not match", events[0].SpanID, events[1].SpanID)
	}
	if events[1].Extra["tasks"] != "2" {
		t.Fatalf("end extra = %v, want tasks=2", events[1].Extra)
	}
	if events[1].Seq <= events[0].Seq {
		t.Fatalf("end seq %d not after begin seq %d", events[1].Seq, events[0].Seq)
	}
}

func TestHeartbeatStartGuards(t *testing.T) {
	if h := StartHeartbeat(nil, time.Second); h != nil {
		t.Fatal("StartHeartbeat(nil tracer) != nil")
	}
	if h := StartHeartbeat(Nop, time.Second); h != nil {
		t.Fatal("StartHeartbeat(disabled tracer) != nil")
	}
	ring := NewRingTracer(4, LevelDebug)
	if h := StartHeartbeat(ring, 0); h != nil {
		t.Fatal("StartHeartbeat(zero interval) != nil")
	}

	var none *Heartbeat
	none.Mark()
	none.Stop()
}

func TestHeartbeatEmitsAndStops(t *testing.T) {
	ring := NewRingTracer(64, LevelDebug)
	h := StartHeartbeat(ring, time.Millisecond)
	h.Mark()
	time.Sleep(20 * time.Millisecond)
	h.Stop()

	events := ring.Snapshot()
	if len(events) == 0 {
		t.Fatal("no heartbeat events recorded")
	}
	if events[0].Kind != KindHeartbeat {
		t.Fatalf("kind = %v, want heartbeat", events[0].Kind)
	}
	if !strings.Contains(events[0].Detail, "polls=") {
		t.Fatalf("detail = %q, want polls count", events[0].Detail)
	}
}
