// Package config loads swell.toml, the optional project file that seeds
// runtime, diagnostic, and trace settings. Command-line flags override
// anything read here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up by Find.
const FileName = "swell.toml"

// Runtime is the [runtime] table: executor scheduling knobs.
type Runtime struct {
	Fuzz      bool   `toml:"fuzz"`
	Seed      int64  `toml:"seed"`
	TimerMode string `toml:"timer_mode"`
}

// Diagnostics is the [diagnostics] table: warning sink settings.
// Zero values defer to the diagnostic defaults.
type Diagnostics struct {
	Level         string `toml:"level"`
	Strict        bool   `toml:"strict"`
	WindowSeconds int64  `toml:"window_seconds"`
	Ceiling       int64  `toml:"ceiling"`
	MessageLimit  int64  `toml:"message_limit"`
	StackDepth    int64  `toml:"stack_depth"`
	DebuggerPath  string `toml:"debugger_path"`
	Journal       string `toml:"journal"`
	Tag           string `toml:"tag"`
	PIDTag        string `toml:"pid_tag"`
}

// Trace is the [trace] table: ambient tracer settings.
type Trace struct {
	Level       string `toml:"level"`
	Mode        string `toml:"mode"`
	Format      string `toml:"format"`
	Output      string `toml:"output"`
	RingSize    int64  `toml:"ring_size"`
	HeartbeatMs int64  `toml:"heartbeat_ms"`
}

// File is a parsed swell.toml. Every table and key is optional.
type File struct {
	Runtime     Runtime     `toml:"runtime"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Trace       Trace       `toml:"trace"`
}

// Find walks from startDir toward the filesystem root looking for
// swell.toml. Absence is not an error.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses and validates a swell.toml. Unknown keys and values that
// do not convert to their runtime types are rejected here, not at the
// point of use.
func Load(path string) (File, error) {
	var cfg File
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return File{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (f File) validate() error {
	if _, err := f.Runtime.ExecutorConfig(); err != nil {
		return err
	}
	if _, err := f.Diagnostics.DiagConfig(); err != nil {
		return err
	}
	if _, err := f.Trace.TracerConfig(); err != nil {
		return err
	}
	return nil
}
