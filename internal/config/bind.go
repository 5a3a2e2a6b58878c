package config

import (
	"fmt"
	"time"

	"fortio.org/safecast"

	"swell/internal/asyncrt"
	"swell/internal/diag"
	"swell/internal/trace"
)

// ExecutorConfig converts the [runtime] table to an executor config.
func (r Runtime) ExecutorConfig() (asyncrt.Config, error) {
	cfg := asyncrt.Config{Fuzz: r.Fuzz}
	seed, err := safecast.Conv[uint64](r.Seed)
	if err != nil {
		return asyncrt.Config{}, fmt.Errorf("[runtime].seed: %w", err)
	}
	cfg.Seed = seed
	if r.TimerMode != "" {
		mode, err := asyncrt.ParseTimerMode(r.TimerMode)
		if err != nil {
			return asyncrt.Config{}, fmt.Errorf("[runtime].timer_mode: %w", err)
		}
		cfg.TimerMode = mode
	}
	return cfg, nil
}

// DiagConfig converts the [diagnostics] table to a diagnostic config.
// The journal path is not opened here; hosts wire Output, Journal, and
// the scheduler capabilities themselves.
func (d Diagnostics) DiagConfig() (diag.Config, error) {
	cfg := diag.Config{
		Level:        diag.LevelSymbols,
		Strict:       d.Strict,
		Tag:          d.Tag,
		PIDTag:       d.PIDTag,
		DebuggerPath: d.DebuggerPath,
	}
	if d.Level != "" {
		level, err := diag.ParseLevel(d.Level)
		if err != nil {
			return diag.Config{}, fmt.Errorf("[diagnostics].level: %w", err)
		}
		cfg.Level = level
	}
	window, err := nonNegative("diagnostics", "window_seconds", d.WindowSeconds)
	if err != nil {
		return diag.Config{}, err
	}
	cfg.Window = time.Duration(window) * time.Second
	if cfg.Ceiling, err = nonNegative("diagnostics", "ceiling", d.Ceiling); err != nil {
		return diag.Config{}, err
	}
	if cfg.MessageLimit, err = nonNegative("diagnostics", "message_limit", d.MessageLimit); err != nil {
		return diag.Config{}, err
	}
	if cfg.StackDepth, err = nonNegative("diagnostics", "stack_depth", d.StackDepth); err != nil {
		return diag.Config{}, err
	}
	return cfg, nil
}

// TracerConfig converts the [trace] table to a tracer config. The
// output path stays a path; trace.New opens it.
func (t Trace) TracerConfig() (trace.Config, error) {
	cfg := trace.Config{Mode: trace.ModeStream}
	if t.Level != "" {
		level, err := trace.ParseLevel(t.Level)
		if err != nil {
			return trace.Config{}, fmt.Errorf("[trace].level: %w", err)
		}
		cfg.Level = level
	}
	if t.Mode != "" {
		mode, err := trace.ParseMode(t.Mode)
		if err != nil {
			return trace.Config{}, fmt.Errorf("[trace].mode: %w", err)
		}
		cfg.Mode = mode
	}
	if t.Format != "" {
		format, err := trace.ParseFormat(t.Format)
		if err != nil {
			return trace.Config{}, fmt.Errorf("[trace].format: %w", err)
		}
		cfg.Format = format
	}
	cfg.OutputPath = t.Output
	ringSize, err := nonNegative("trace", "ring_size", t.RingSize)
	if err != nil {
		return trace.Config{}, err
	}
	cfg.RingSize = ringSize
	heartbeat, err := nonNegative("trace", "heartbeat_ms", t.HeartbeatMs)
	if err != nil {
		return trace.Config{}, err
	}
	cfg.Heartbeat = time.Duration(heartbeat) * time.Millisecond
	return cfg, nil
}

// nonNegative narrows a TOML integer to int, rejecting negatives so a
// bad file fails at load instead of underflowing a window or buffer.
func nonNegative(table, key string, value int64) (int, error) {
	if value < 0 {
		return 0, fmt.Errorf("[%s].%s must be non-negative, got %d", table, key, value)
	}
	n, err := safecast.Conv[int](value)
	if err != nil {
		return 0, fmt.Errorf("[%s].%s: %w", table, key, err)
	}
	return n, nil
}
