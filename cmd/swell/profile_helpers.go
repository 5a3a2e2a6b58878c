package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"swell/internal/prof"
)

// setupProfiling inspects persistent profiling flags and starts the
// requested profilers. The returned cleanup is safe to call more than
// once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	var opts prof.Options
	bindings := []struct {
		flag string
		dst  *string
	}{
		{"cpu-profile", &opts.CPUPath},
		{"mem-profile", &opts.HeapPath},
		{"runtime-trace", &opts.TracePath},
	}
	for _, b := range bindings {
		value, err := flags.GetString(b.flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", b.flag, err)
		}
		*b.dst = value
	}

	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
		}
	}, nil
}
