package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff   Level = iota // no tracing
	LevelError              // record for post-mortem dumps only
	LevelSched              // run lifecycle + scheduler decisions
	LevelTask               // per-task lifecycle events
	LevelDebug              // everything including diagnostic activity
)

var levelNames = [...]string{
	LevelOff:   "off",
	LevelError: "error",
	LevelSched: "sched",
	LevelTask:  "task",
	LevelDebug: "debug",
}

// String returns the flag spelling of the level.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag or config spelling to a Level. Matching
// is case-insensitive.
func ParseLevel(s string) (Level, error) {
	want := strings.ToLower(s)
	for i, name := range levelNames {
		if name == want {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|sched|task|debug)", s)
}

// ShouldEmit returns true if the given scope should stream live at
// this level. Each level past error admits one finer scope; debug
// admits them all.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelSched:
		return scope <= ScopeSched
	case LevelTask:
		return scope <= ScopeTask
	case LevelDebug:
		return true
	default:
		// Off streams nothing. Error streams nothing either; rings
		// still record, see ShouldRecord.
		return false
	}
}

// ShouldRecord returns true if the given scope should be captured for
// post-mortem dumps at this level. LevelError records every scope even
// though nothing streams live.
func (l Level) ShouldRecord(scope Scope) bool {
	if l == LevelError {
		return true
	}
	return l.ShouldEmit(scope)
}
