package diag

import (
	"syscall"
	"testing"
	"time"
)

func TestNewFillsDefaults(t *testing.T) {
	c := New(Config{})

	if c.cfg.Signal != syscall.SIGABRT {
		t.Fatalf("Signal = %v, want SIGABRT", c.cfg.Signal)
	}
	if c.cfg.Window != 300*time.Second {
		t.Fatalf("Window = %v, want 300s", c.cfg.Window)
	}
	if c.cfg.Ceiling != 1000 {
		t.Fatalf("Ceiling = %d, want 1000", c.cfg.Ceiling)
	}
	if c.cfg.MessageLimit != 1000 {
		t.Fatalf("MessageLimit = %d, want 1000", c.cfg.MessageLimit)
	}
	if c.cfg.StackDepth != 64 {
		t.Fatalf("StackDepth = %d, want 64", c.cfg.StackDepth)
	}
	if c.cfg.DebuggerPath != "gdb" {
		t.Fatalf("DebuggerPath = %q, want gdb", c.cfg.DebuggerPath)
	}
	if c.cfg.Tag != "[" || c.cfg.PIDTag != "] " {
		t.Fatalf("tags = %q/%q, want [ and ] ", c.cfg.Tag, c.cfg.PIDTag)
	}
	if c.cfg.Output == nil || c.cfg.Now == nil {
		t.Fatalf("Output/Now not defaulted")
	}
	if c.Level() != LevelOff {
		t.Fatalf("zero Config level = %v, want LevelOff preserved", c.Level())
	}
}

func TestDefaultConfigUsesSymbols(t *testing.T) {
	if DefaultConfig().Level != LevelSymbols {
		t.Fatalf("DefaultConfig().Level = %v, want LevelSymbols", DefaultConfig().Level)
	}
}

func TestSetDefault(t *testing.T) {
	old := Default()
	defer SetDefault(old)

	c := New(DefaultConfig())
	SetDefault(c)
	if Default() != c {
		t.Fatalf("Default() did not return the installed context")
	}
	SetDefault(nil)
	if Default() != c {
		t.Fatalf("SetDefault(nil) must keep the previous context")
	}
}

func TestSettersAdjustContext(t *testing.T) {
	c := New(Config{Level: LevelAddrs})

	c.SetLevel(LevelSymbols)
	if c.Level() != LevelSymbols {
		t.Fatalf("Level() = %v after SetLevel, want LevelSymbols", c.Level())
	}
	c.SetStrict(true)
	if !c.cfg.Strict {
		t.Fatalf("Strict not set")
	}
	c.SetBoundary(func(uintptr) bool { return true })
	if c.cfg.Boundary == nil {
		t.Fatalf("Boundary not set")
	}
	c.SetSuspended(func() []uintptr { return nil })
	if c.cfg.Suspended == nil {
		t.Fatalf("Suspended not set")
	}
	c.SetObserver(func(string) {})
	if c.cfg.Observer == nil {
		t.Fatalf("Observer not set")
	}
}

func TestNilContextAccessors(t *testing.T) {
	var c *Context
	c.SetLevel(LevelDebugger)
	c.SetStrict(true)
	c.SetBoundary(nil)
	c.SetSuspended(nil)
	c.SetObserver(nil)
	c.SetJournal(nil)
	if c.Level() != LevelOff {
		t.Fatalf("nil context Level() = %v, want LevelOff", c.Level())
	}
	if !c.Disabled() {
		t.Fatalf("nil context Disabled() = false, want true")
	}
}
