// Package observ provides a small phase timer for reporting where a
// command spent its time.
package observ

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Timer measures consecutive phases of a command run.
type Timer struct {
	phases []phase
}

type phase struct {
	name string
	dur  time.Duration
	note string
}

// NewTimer returns an empty timer.
func NewTimer() *Timer { return &Timer{} }

// Begin opens a phase and returns the function that closes it. The
// note is attached when the phase closes; pass "" for none. A phase
// that is never closed does not appear in the report.
func (t *Timer) Begin(name string) func(note string) {
	start := time.Now()
	return func(note string) {
		t.phases = append(t.phases, phase{name: name, dur: time.Since(start), note: note})
	}
}

// PhaseReport is the serializable form of one timed phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates the timer's phases.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report converts the closed phases to milliseconds with a grand total.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	out := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.dur
		out.Phases[i] = PhaseReport{
			Name:       p.name,
			DurationMS: float64(p.dur) / float64(time.Millisecond),
			Note:       p.note,
		}
	}
	out.TotalMS = float64(total) / float64(time.Millisecond)
	return out
}

// Summary renders the phases as an aligned text block with a total row.
func (t *Timer) Summary() string {
	report := t.Report()
	width := len("total")
	for _, p := range report.Phases {
		if len(p.Name) > width {
			width = len(p.Name)
		}
	}
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-*s %8.2f ms", width, p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-*s %8.2f ms\n", width, "total", report.TotalMS)
	return b.String()
}

// WriteJSON writes the report as indented JSON.
func (t *Timer) WriteJSON(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.Report()); err != nil {
		return fmt.Errorf("encode timing report: %w", err)
	}
	return nil
}
