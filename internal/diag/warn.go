package diag

import (
	"fmt"
	"runtime"
	"time"
)

const (
	backtraceHeader = "------- Stack Backtrace -------"
	backtraceFooter = "-------------------------------"
)

// Warn emits a warning with the configured backtrace detail.
func (c *Context) Warn(message string) {
	if c == nil {
		return
	}
	c.emit(SevWarning, message)
}

// Warnf formats and emits a warning.
func (c *Context) Warnf(format string, args ...any) {
	if c == nil {
		return
	}
	c.emit(SevWarning, fmt.Sprintf(format, args...))
}

// emit drives the whole warning pipeline. It never reports an error: every
// internal failure degrades to text on the configured stream.
func (c *Context) emit(sev Severity, message string) {
	if c.Disabled() {
		return
	}
	now := c.cfg.Now().Unix()
	d := c.window.admit(now, int64(c.cfg.Window/time.Second), c.cfg.Ceiling)
	if d.resumed > 0 {
		fmt.Fprintf(c.cfg.Output, "[time=%d] Resuming writing warnings: %d skipped\n", now, d.resumed)
	}
	if !d.ok {
		return
	}

	message = truncate(message, c.cfg.MessageLimit)

	c.EnterCritical()
	fmt.Fprintf(c.cfg.Output, "%s%d%sWarning: %s\n", c.cfg.Tag, now, c.cfg.PIDTag, message)

	var pcs []uintptr
	if c.cfg.Level > LevelOff {
		pcs = c.capture()
		fmt.Fprintln(c.cfg.Output, backtraceHeader)
		if c.cfg.Level == LevelDebugger {
			renderDebugger(c.cfg.Output, c.cfg.DebuggerPath)
		} else {
			for _, seg := range stitch(pcs, c.cfg.Boundary, c.cfg.Suspended) {
				c.renderSegment(seg)
			}
		}
		fmt.Fprintf(c.cfg.Output, "%s\n\n", backtraceFooter)
	}

	if c.cfg.Journal != nil {
		if err := c.cfg.Journal.Record(Event{
			Unix:     now,
			Severity: sev,
			Message:  message,
			Frames:   frameWords(pcs),
		}); err != nil {
			fmt.Fprintf(c.cfg.Output, "journal: %v\n", err)
		}
	}
	if d.last {
		fmt.Fprintf(c.cfg.Output, "[time=%d] Warnings limit reached. No more will be printed till %d\n", now, d.until)
	}
	c.LeaveCritical()

	if c.depth == 0 && !c.notifying && c.cfg.Observer != nil {
		c.notifying = true
		c.cfg.Observer(message)
		c.notifying = false
	}
	if c.cfg.Strict && sev == SevWarning {
		c.raise(c.cfg.Signal) //nolint:errcheck // about to exit either way
		fmt.Fprintln(c.cfg.Output, "exiting after warning: strict mode enabled")
		c.exit(1)
	}
}

// renderSegment writes one stitched segment at the configured level.
// LevelDebugger is handled by the caller: the debugger dumps the whole
// process once, segments mean nothing to it.
func (c *Context) renderSegment(seg segment) {
	switch c.cfg.Level {
	case LevelAddrs:
		renderAddrs(c.cfg.Output, seg.pcs)
	case LevelSymbols:
		renderSymbols(c.cfg.Output, seg.pcs, seg.shift, c.resolve)
	}
}

// capture records the caller's stack, innermost first. The skip count drops
// runtime.Callers, capture itself, emit, and the public wrapper, so the
// first frame is the warning site.
func (c *Context) capture() []uintptr {
	pcs := make([]uintptr, c.cfg.StackDepth)
	n := runtime.Callers(4, pcs)
	return pcs[:n]
}

// truncate bounds message bytes. The cut is byte-exact.
func truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
