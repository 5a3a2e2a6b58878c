package main

import (
	"fmt"
	"os"

	"swell/internal/ui"
)

func readUIMode(value string) (ui.Mode, error) {
	mode, err := ui.ParseMode(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return mode, nil
}

func shouldUseTUI(mode ui.Mode) bool {
	switch mode {
	case ui.ModeOn:
		return true
	case ui.ModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
