package diag

import "fmt"

// Level controls how much detail accompanies a warning.
type Level uint8

const (
	// LevelOff suppresses warnings entirely.
	LevelOff      Level = iota // no output at all
	LevelAddrs                 // header + raw frame addresses
	LevelSymbols               // header + symbolized frames
	LevelDebugger              // header + debugger-attached dump
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelAddrs:
		return "addrs"
	case LevelSymbols:
		return "symbols"
	case LevelDebugger:
		return "debugger"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "addrs", "ADDRS":
		return LevelAddrs, nil
	case "symbols", "SYMBOLS":
		return LevelSymbols, nil
	case "debugger", "DEBUGGER":
		return LevelDebugger, nil
	default:
		return LevelOff, fmt.Errorf("invalid warning level: %q (expected: off|addrs|symbols|debugger)", s)
	}
}
