package trace

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Format selects how trace events are rendered.
type Format uint8

const (
	FormatAuto   Format = iota // detect from the output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

var formatNames = [...]string{
	FormatAuto:   "auto",
	FormatText:   "text",
	FormatNDJSON: "ndjson",
}

// String returns the flag spelling of the format.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat converts a flag or config spelling to a Format. Matching
// is case-insensitive.
func ParseFormat(s string) (Format, error) {
	want := strings.ToLower(s)
	for i, name := range formatNames {
		if name == want {
			return Format(i), nil
		}
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders one event, trailing newline included. Auto falls
// back to text; New resolves auto from the output path before any
// event reaches a renderer.
func FormatEvent(ev Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

// wireTimeLayout is RFC 3339 with microsecond precision.
const wireTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// wireEvent fixes the JSON spellings of an Event for NDJSON dumps.
type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Task     uint64            `json:"task,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func formatNDJSON(ev Event) []byte {
	data, _ := json.Marshal(wireEvent{
		Time:     ev.Time.Format(wireTimeLayout),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Task:     ev.Task,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	return append(data, '\n')
}

// kindMarkers lead each text line so span pairs and instant events
// scan apart in a dump.
var kindMarkers = [...]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// formatText renders [timestamp] [indent]marker name task=N (detail) {extra}.
func formatText(ev Event) []byte {
	buf := ev.Time.AppendFormat(nil, "[15:04:05.000000] ")

	// Child spans get a shallow indent; roots stay flush left.
	if ev.ParentID > 0 {
		buf = append(buf, "  "...)
	}
	if int(ev.Kind) < len(kindMarkers) {
		buf = append(buf, kindMarkers[ev.Kind]...)
	}
	buf = append(buf, ev.Name...)

	if ev.Task > 0 {
		buf = append(buf, " task="...)
		buf = strconv.AppendUint(buf, ev.Task, 10)
	}
	if ev.Detail != "" {
		buf = append(buf, " ("...)
		buf = append(buf, ev.Detail...)
		buf = append(buf, ')')
	}

	// Extras in key order so dumps diff cleanly.
	if len(ev.Extra) > 0 {
		buf = append(buf, " {"...)
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ", "...)
			}
			buf = append(buf, k...)
			buf = append(buf, '=')
			buf = append(buf, ev.Extra[k]...)
		}
		buf = append(buf, '}')
	}

	return append(buf, '\n')
}
