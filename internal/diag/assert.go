package diag

import (
	"fmt"
	"os"
	"runtime"
)

// assertionFormat is the warning text emitted for failed assertions.
const assertionFormat = `Assertion "%s" failed in file %s on line %d`

// Assert checks an internal invariant. A false condition reports the
// caller's site and terminates the process; a true condition costs one
// branch.
func (c *Context) Assert(cond bool, text string) {
	if cond {
		return
	}
	file, line := "??", 0
	if _, f, l, ok := runtime.Caller(1); ok {
		file, line = f, l
	}
	c.FailAssertion(text, file, line)
}

// FailAssertion reports a violated invariant at an explicit site and
// terminates the process. It never returns. The diagnostic text obeys the
// usual gates (level, disable, rate); termination does not.
func (c *Context) FailAssertion(text, file string, line int) {
	if c != nil {
		c.emit(SevAssertion, fmt.Sprintf(assertionFormat, text, file, line))
		c.raise(c.cfg.Signal) //nolint:errcheck // about to exit either way
		fmt.Fprintln(c.cfg.Output, "exiting after failed assertion")
		c.exit(1)
		return
	}
	os.Exit(1)
}

// RaiseSignal delivers the configured diagnostic signal to this process
// without terminating it. Hosts use it to trip an attached handler.
func (c *Context) RaiseSignal() {
	if c == nil {
		return
	}
	c.raise(c.cfg.Signal) //nolint:errcheck // delivery is best effort
}
