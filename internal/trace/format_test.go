package trace

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestFormatNDJSON(t *testing.T) {
	ev := Event{
		Time:   time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC),
		Seq:    7,
		Kind:   KindPoint,
		Scope:  ScopeTask,
		Task:   3,
		Name:   "task.park",
		Detail: "join",
	}

	line := formatNDJSON(ev)
	if !strings.HasSuffix(string(line), "\n") {
		t.Fatal("ndjson line must end with a newline")
	}

	var decoded map[string]any
	if err := json.Unmarshal(line, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["kind"] != "point" {
		t.Fatalf("kind = %v, want point", decoded["kind"])
	}
	if decoded["scope"] != "task" {
		t.Fatalf("scope = %v, want task", decoded["scope"])
	}
	if decoded["task"] != float64(3) {
		t.Fatalf("task = %v, want 3", decoded["task"])
	}
	if decoded["seq"] != float64(7) {
		t.Fatalf("seq = %v, want 7", decoded["seq"])
	}
	if decoded["name"] != "task.park" {
		t.Fatalf("name = %v, want task.park", decoded["name"])
	}
	if _, present := decoded["parent_id"]; present {
		t.Fatal("zero parent_id should be omitted")
	}
	if _, present := decoded["extra"]; present {
		t.Fatal("empty extra should be omitted")
	}
}

func TestFormatTextSpanEnd(t *testing.T) {
	ev := Event{
		Time:   time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC),
		Kind:   KindSpanEnd,
		Scope:  ScopeRuntime,
		SpanID: 1,
		Name:   "run",
		Detail: "ok",
		Extra:  map[string]string{"tasks": "4", "polls": "17"},
	}

	got := string(formatText(ev))
	want := "[09:26:53.589000] ← run (ok) {polls=17, tasks=4}\n"
	if got != want {
		t.Fatalf("formatText = %q, want %q", got, want)
	}
}

func TestFormatTextTaskPoint(t *testing.T) {
	ev := Event{
		Time:  time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Kind:  KindPoint,
		Scope: ScopeTask,
		Task:  5,
		Name:  "task.done",
	}

	got := string(formatText(ev))
	want := "[09:26:53.000000] • task.done task=5\n"
	if got != want {
		t.Fatalf("formatText = %q, want %q", got, want)
	}
}

func TestFormatTextIndentsChildSpans(t *testing.T) {
	ev := Event{
		Time:     time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Kind:     KindSpanBegin,
		Scope:    ScopeSched,
		SpanID:   2,
		ParentID: 1,
		Name:     "poll",
	}

	got := string(formatText(ev))
	want := "[09:26:53.000000]   → poll\n"
	if got != want {
		t.Fatalf("formatText = %q, want %q", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
	}{
		{"auto", FormatAuto},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"ndjson", FormatNDJSON},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if err != nil {
				t.Fatalf("ParseFormat(%q): unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseFormat(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	if _, err := ParseFormat("chrome"); err == nil {
		t.Fatal("ParseFormat(\"chrome\"): expected error, got nil")
	}
}
