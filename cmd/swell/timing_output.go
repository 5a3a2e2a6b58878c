package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"swell/internal/observ"
)

// printTimings writes the phase report to stderr when --timings is set.
// --timings-json switches the report to JSON and implies --timings.
func printTimings(cmd *cobra.Command, timer *observ.Timer) error {
	root := cmd.Root()

	enabled, err := root.PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	asJSON, err := root.PersistentFlags().GetBool("timings-json")
	if err != nil {
		return fmt.Errorf("failed to get timings-json flag: %w", err)
	}
	if !enabled && !asJSON {
		return nil
	}

	out := cmd.ErrOrStderr()
	if asJSON {
		return timer.WriteJSON(out)
	}
	fmt.Fprint(out, timer.Summary())
	return nil
}
