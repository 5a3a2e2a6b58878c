package ui

import (
	"fmt"
	"strings"
)

// Mode selects whether the dashboard runs.
type Mode uint8

const (
	ModeAuto Mode = iota // dashboard on a terminal, plain output otherwise
	ModeOn
	ModeOff
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeOn:
		return "on"
	case ModeOff:
		return "off"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses a dashboard mode name. Empty means auto.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return ModeAuto, nil
	case "on":
		return ModeOn, nil
	case "off":
		return ModeOff, nil
	default:
		return ModeAuto, fmt.Errorf("invalid ui mode: %q (expected: auto|on|off)", value)
	}
}
