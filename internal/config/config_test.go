package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"swell/internal/asyncrt"
	"swell/internal/diag"
	"swell/internal/trace"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadFullFile(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[runtime]
fuzz = true
seed = 42
timer_mode = "real"

[diagnostics]
level = "addrs"
strict = true
window_seconds = 10
ceiling = 5
message_limit = 64
stack_depth = 16
debugger_path = "lldb"
journal = "warn.journal"
tag = "<w "
pid_tag = "> "

[trace]
level = "task"
mode = "both"
format = "ndjson"
output = "run.trace"
ring_size = 128
heartbeat_ms = 250
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ex, err := cfg.Runtime.ExecutorConfig()
	if err != nil {
		t.Fatalf("ExecutorConfig: %v", err)
	}
	if !ex.Fuzz || ex.Seed != 42 || ex.TimerMode != asyncrt.TimerModeReal {
		t.Fatalf("executor config = %+v", ex)
	}

	dc, err := cfg.Diagnostics.DiagConfig()
	if err != nil {
		t.Fatalf("DiagConfig: %v", err)
	}
	if dc.Level != diag.LevelAddrs {
		t.Fatalf("level = %v, want addrs", dc.Level)
	}
	if !dc.Strict {
		t.Fatal("strict not carried over")
	}
	if dc.Window != 10*time.Second {
		t.Fatalf("window = %v, want 10s", dc.Window)
	}
	if dc.Ceiling != 5 || dc.MessageLimit != 64 || dc.StackDepth != 16 {
		t.Fatalf("bounds = %d/%d/%d, want 5/64/16", dc.Ceiling, dc.MessageLimit, dc.StackDepth)
	}
	if dc.DebuggerPath != "lldb" || dc.Tag != "<w " || dc.PIDTag != "> " {
		t.Fatalf("strings = %q/%q/%q", dc.DebuggerPath, dc.Tag, dc.PIDTag)
	}
	if cfg.Diagnostics.Journal != "warn.journal" {
		t.Fatalf("journal path = %q", cfg.Diagnostics.Journal)
	}

	tc, err := cfg.Trace.TracerConfig()
	if err != nil {
		t.Fatalf("TracerConfig: %v", err)
	}
	if tc.Level != trace.LevelTask || tc.Mode != trace.ModeBoth || tc.Format != trace.FormatNDJSON {
		t.Fatalf("trace config = %+v", tc)
	}
	if tc.OutputPath != "run.trace" || tc.RingSize != 128 || tc.Heartbeat != 250*time.Millisecond {
		t.Fatalf("trace output = %+v", tc)
	}
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ex, err := cfg.Runtime.ExecutorConfig()
	if err != nil {
		t.Fatalf("ExecutorConfig: %v", err)
	}
	if ex.Fuzz || ex.Seed != 0 || ex.TimerMode != asyncrt.TimerModeVirtual {
		t.Fatalf("executor config = %+v, want zero/virtual", ex)
	}
	dc, err := cfg.Diagnostics.DiagConfig()
	if err != nil {
		t.Fatalf("DiagConfig: %v", err)
	}
	if dc.Level != diag.LevelSymbols {
		t.Fatalf("default level = %v, want symbols", dc.Level)
	}
	if dc.Strict || dc.Window != 0 || dc.Ceiling != 0 {
		t.Fatalf("diag config = %+v, want zero values", dc)
	}
	tc, err := cfg.Trace.TracerConfig()
	if err != nil {
		t.Fatalf("TracerConfig: %v", err)
	}
	if tc.Level != trace.LevelOff || tc.Mode != trace.ModeStream || tc.Format != trace.FormatAuto {
		t.Fatalf("trace config = %+v, want off/stream/auto", tc)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[diagnostics]\nlevle = \"addrs\"\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("Load = %v, want unknown key error", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad diag level", "[diagnostics]\nlevel = \"verbose\"\n", "[diagnostics].level"},
		{"bad trace mode", "[trace]\nmode = \"chrome\"\n", "[trace].mode"},
		{"bad trace format", "[trace]\nformat = \"xml\"\n", "[trace].format"},
		{"bad timer mode", "[runtime]\ntimer_mode = \"warp\"\n", "[runtime].timer_mode"},
		{"negative seed", "[runtime]\nseed = -1\n", "[runtime].seed"},
		{"negative ceiling", "[diagnostics]\nceiling = -1\n", "must be non-negative"},
		{"negative ring", "[trace]\nring_size = -8\n", "must be non-negative"},
		{"broken toml", "[diagnostics\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.want)
			}
			if !strings.Contains(err.Error(), path) {
				t.Fatalf("error = %v, want it to name the file", err)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[runtime]\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found from nested directory")
	}
	if path != filepath.Join(root, FileName) {
		t.Fatalf("path = %q, want manifest at %q", path, root)
	}
}

func TestFindReportsAbsence(t *testing.T) {
	_, ok, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if ok {
		t.Fatal("found a manifest in an empty tree")
	}
}
