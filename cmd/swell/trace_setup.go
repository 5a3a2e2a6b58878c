package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"swell/internal/config"
	"swell/internal/trace"
)

// setupTracing merges trace flags over the manifest's [trace] table and
// initializes the tracer. Flags win when set on the command line. The tracer
// is attached to the command context; the heartbeat, when configured, is
// returned so the host can mark scheduler progress on it. The cleanup stops
// the heartbeat, flushes, and closes the tracer.
func setupTracing(cmd *cobra.Command, fileCfg config.Trace) (*trace.Heartbeat, func(), error) {
	flags := cmd.Root().PersistentFlags()

	cfg, err := fileCfg.TracerConfig()
	if err != nil {
		return nil, nil, err
	}

	if flags.Changed("trace") {
		cfg.OutputPath, err = flags.GetString("trace")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
	}
	if flags.Changed("trace-level") {
		levelStr, err := flags.GetString("trace-level")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		cfg.Level, err = trace.ParseLevel(levelStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid trace level: %w", err)
		}
	}
	if flags.Changed("trace-mode") {
		modeStr, err := flags.GetString("trace-mode")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
		cfg.Mode, err = trace.ParseMode(modeStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
		}
	}
	if flags.Changed("trace-ring-size") {
		cfg.RingSize, err = flags.GetInt("trace-ring-size")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
	}
	if flags.Changed("trace-heartbeat") {
		cfg.Heartbeat, err = flags.GetDuration("trace-heartbeat")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
		}
	}

	// If the level is off and no output is wanted, skip tracing. A Nop
	// tracer still goes into the context so commands can always pull one.
	if cfg.Level == trace.LevelOff && cfg.OutputPath == "" {
		ctx := trace.WithTracer(cmd.Context(), trace.Nop)
		cmd.SetContext(ctx)
		return nil, func() {}, nil
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	// Attach tracer to context
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	// Start heartbeat if configured
	var heartbeat *trace.Heartbeat
	if cfg.Heartbeat > 0 {
		heartbeat = trace.StartHeartbeat(tracer, cfg.Heartbeat)
	}

	cleanup := func() {
		// Stop heartbeat first
		if heartbeat != nil {
			heartbeat.Stop()
		}

		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}

	return heartbeat, cleanup, nil
}

// dumpRingOnError writes the post-mortem ring to stderr when the tracer
// keeps one. Called on scenario failure so the last events reach the user
// even when streaming was off.
func dumpRingOnError(cmd *cobra.Command, tracer trace.Tracer) {
	ring := trace.FindRing(tracer)
	if ring == nil {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "--- trace ring dump ---")
	if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: ring dump error: %v\n", err)
	}
}
