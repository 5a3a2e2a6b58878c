package diag

import (
	"path/filepath"
	"strings"
	"syscall"
	"testing"
)

type escalation struct {
	raised []syscall.Signal
	codes  []int
}

func hookEscalation(c *Context) *escalation {
	esc := &escalation{}
	c.raise = func(s syscall.Signal) error {
		esc.raised = append(esc.raised, s)
		return nil
	}
	c.exit = func(code int) {
		esc.codes = append(esc.codes, code)
	}
	return esc
}

func TestFailAssertionEmitsAndTerminates(t *testing.T) {
	sec := int64(100)
	c, buf := testContext(t, Config{Level: LevelAddrs, Now: fixedClock(&sec)})
	esc := hookEscalation(c)

	c.FailAssertion("stack not empty", "vm.go", 42)

	out := buf.String()
	want := `Warning: Assertion "stack not empty" failed in file vm.go on line 42`
	if !strings.Contains(out, want) {
		t.Fatalf("assertion text missing: %q", out)
	}
	if !strings.Contains(out, "exiting after failed assertion") {
		t.Fatalf("final line missing: %q", out)
	}
	if len(esc.raised) != 1 || esc.raised[0] != syscall.SIGABRT {
		t.Fatalf("raised = %v, want one SIGABRT", esc.raised)
	}
	if len(esc.codes) != 1 || esc.codes[0] != 1 {
		t.Fatalf("exit codes = %v, want [1]", esc.codes)
	}
	if strings.Index(out, want) > strings.Index(out, "exiting after failed assertion") {
		t.Fatalf("assertion text must precede the final line: %q", out)
	}
}

func TestFailAssertionTerminatesEvenWhenDisabled(t *testing.T) {
	c, buf := testContext(t, Config{Level: LevelOff})
	esc := hookEscalation(c)

	c.FailAssertion("unseen", "f.go", 1)

	if strings.Contains(buf.String(), "Warning:") {
		t.Fatalf("disabled context emitted text: %q", buf.String())
	}
	if len(esc.raised) != 1 || len(esc.codes) != 1 {
		t.Fatalf("termination skipped: raised=%v codes=%v", esc.raised, esc.codes)
	}
}

func TestAssertTrueIsNoop(t *testing.T) {
	sec := int64(100)
	c, buf := testContext(t, Config{Level: LevelAddrs, Now: fixedClock(&sec)})
	esc := hookEscalation(c)

	c.Assert(true, "fine")

	if buf.Len() != 0 || len(esc.raised) != 0 || len(esc.codes) != 0 {
		t.Fatalf("Assert(true) had effects: out=%q raised=%v codes=%v", buf.String(), esc.raised, esc.codes)
	}
}

func TestAssertCapturesCallSite(t *testing.T) {
	sec := int64(100)
	c, buf := testContext(t, Config{Level: LevelAddrs, Now: fixedClock(&sec)})
	hookEscalation(c)

	c.Assert(false, "bad invariant")

	out := buf.String()
	if !strings.Contains(out, `Assertion "bad invariant" failed in file `) {
		t.Fatalf("assertion text missing: %q", out)
	}
	if !strings.Contains(out, "assert_test.go") {
		t.Fatalf("call site file missing: %q", out)
	}
	if !strings.Contains(out, " on line ") {
		t.Fatalf("call site line missing: %q", out)
	}
}

func TestAssertionSeverityInJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assert.journal")
	j, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("OpenJournal returned error: %v", err)
	}

	sec := int64(100)
	c, _ := testContext(t, Config{Level: LevelAddrs, Journal: j, Now: fixedClock(&sec)})
	hookEscalation(c)

	c.FailAssertion("broken", "f.go", 7)
	if err := j.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	events, err := ReadJournal(path)
	if err != nil {
		t.Fatalf("ReadJournal returned error: %v", err)
	}
	if len(events) != 1 || events[0].Severity != SevAssertion {
		t.Fatalf("events = %+v, want one SevAssertion", events)
	}
}

func TestRaiseSignalDeliversConfigured(t *testing.T) {
	c, _ := testContext(t, Config{Level: LevelAddrs, Signal: syscall.SIGUSR2})
	esc := hookEscalation(c)

	c.RaiseSignal()

	if len(esc.raised) != 1 || esc.raised[0] != syscall.SIGUSR2 {
		t.Fatalf("raised = %v, want one SIGUSR2", esc.raised)
	}
	if len(esc.codes) != 0 {
		t.Fatalf("RaiseSignal must not exit, got codes %v", esc.codes)
	}
}

func TestStrictSkipsDoubleEscalationForAssertions(t *testing.T) {
	sec := int64(100)
	c, buf := testContext(t, Config{Level: LevelAddrs, Strict: true, Now: fixedClock(&sec)})
	esc := hookEscalation(c)

	c.FailAssertion("once", "f.go", 3)

	if len(esc.raised) != 1 || len(esc.codes) != 1 {
		t.Fatalf("assertion under strict mode escalated twice: raised=%v codes=%v", esc.raised, esc.codes)
	}
	if strings.Contains(buf.String(), "strict mode enabled") {
		t.Fatalf("assertion took the strict warning exit: %q", buf.String())
	}
}
