package diag

import (
	"io"
	"os"
	"syscall"
	"time"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultWindow       = 300 * time.Second
	DefaultCeiling      = 1000
	DefaultMessageLimit = 1000
	DefaultStackDepth   = 64
	DefaultDebuggerPath = "gdb"
)

// DefaultSignal is raised on assertion failures and strict-mode warnings.
const DefaultSignal = syscall.SIGABRT

// Config carries the tunable parts of a Context.
type Config struct {
	// Level selects backtrace detail.
	Level Level
	// Strict escalates every warning into termination.
	Strict bool
	// Signal raised on escalation. Default SIGABRT.
	Signal syscall.Signal
	// Output receives all diagnostic text. Default os.Stderr.
	Output io.Writer
	// Tag and PIDTag frame the timestamp in the warning header.
	Tag    string
	PIDTag string
	// Window and Ceiling bound the warning rate. Window has one-second
	// resolution.
	Window  time.Duration
	Ceiling int
	// MessageLimit truncates warning text, in bytes.
	MessageLimit int
	// StackDepth caps the number of captured frames.
	StackDepth int
	// DebuggerPath locates the debugger binary used at LevelDebugger.
	DebuggerPath string
	// Boundary classifies scheduler frames; nil disables stitching.
	Boundary BoundaryFunc
	// Suspended supplies the parked task frames spliced at the boundary.
	Suspended StackFunc
	// Observer is notified once per top-level diagnostic, after it is
	// fully written.
	Observer func(message string)
	// Journal records emitted diagnostics when non-nil.
	Journal *Journal
	// Now overrides the clock.
	Now func() time.Time
}

// DefaultConfig returns the stock configuration: symbolized backtraces,
// SIGABRT escalation, output on stderr, a 300 second window holding at most
// 1000 warnings.
func DefaultConfig() Config {
	return Config{
		Level:        LevelSymbols,
		Signal:       DefaultSignal,
		Output:       os.Stderr,
		Tag:          "[",
		PIDTag:       "] ",
		Window:       DefaultWindow,
		Ceiling:      DefaultCeiling,
		MessageLimit: DefaultMessageLimit,
		StackDepth:   DefaultStackDepth,
		DebuggerPath: DefaultDebuggerPath,
	}
}

// Context owns all diagnostic state for one process. It is not safe for
// concurrent use: the cooperative runtime drives it from a single goroutine.
type Context struct {
	cfg Config

	window    rateWindow
	depth     int
	off       int
	notifying bool

	// Injection points for tests. New installs the real implementations.
	resolve resolveFunc
	raise   func(sig syscall.Signal) error
	exit    func(code int)
}

// New builds a Context. Zero Config fields other than Level and Strict fall
// back to DefaultConfig values, so a partially filled Config stays usable.
func New(cfg Config) *Context {
	def := DefaultConfig()
	if cfg.Signal == 0 {
		cfg.Signal = def.Signal
	}
	if cfg.Output == nil {
		cfg.Output = def.Output
	}
	if cfg.Tag == "" {
		cfg.Tag = def.Tag
	}
	if cfg.PIDTag == "" {
		cfg.PIDTag = def.PIDTag
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = def.Ceiling
	}
	if cfg.MessageLimit <= 0 {
		cfg.MessageLimit = def.MessageLimit
	}
	if cfg.StackDepth <= 0 {
		cfg.StackDepth = def.StackDepth
	}
	if cfg.DebuggerPath == "" {
		cfg.DebuggerPath = def.DebuggerPath
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Context{
		cfg:     cfg,
		resolve: runtimeResolve,
		raise: func(sig syscall.Signal) error {
			return syscall.Kill(os.Getpid(), sig)
		},
		exit: os.Exit,
	}
}

var defaultCtx = New(DefaultConfig())

// Default returns the process-wide Context.
func Default() *Context {
	return defaultCtx
}

// SetDefault replaces the process-wide Context. Call during startup, before
// any task runs.
func SetDefault(c *Context) {
	if c == nil {
		return
	}
	defaultCtx = c
}

// Level returns the current backtrace detail level.
func (c *Context) Level() Level {
	if c == nil {
		return LevelOff
	}
	return c.cfg.Level
}

// SetLevel adjusts backtrace detail.
func (c *Context) SetLevel(l Level) {
	if c == nil {
		return
	}
	c.cfg.Level = l
}

// SetStrict toggles warning escalation.
func (c *Context) SetStrict(v bool) {
	if c == nil {
		return
	}
	c.cfg.Strict = v
}

// SetBoundary installs the scheduler frame classifier. Fix it before the
// first warning.
func (c *Context) SetBoundary(b BoundaryFunc) {
	if c == nil {
		return
	}
	c.cfg.Boundary = b
}

// SetSuspended installs the suspended-stack supplier. Fix it before the
// first warning.
func (c *Context) SetSuspended(s StackFunc) {
	if c == nil {
		return
	}
	c.cfg.Suspended = s
}

// SetObserver installs the top-level diagnostic callback.
func (c *Context) SetObserver(fn func(message string)) {
	if c == nil {
		return
	}
	c.cfg.Observer = fn
}

// SetJournal attaches a journal. The caller keeps ownership and closes it.
func (c *Context) SetJournal(j *Journal) {
	if c == nil {
		return
	}
	c.cfg.Journal = j
}

// Disable suppresses warnings until a matching Enable. Calls nest.
func (c *Context) Disable() {
	if c == nil {
		return
	}
	c.off++
}

// Enable undoes one Disable.
func (c *Context) Enable() {
	if c == nil || c.off == 0 {
		return
	}
	c.off--
}

// Disabled reports whether warnings are currently suppressed, either by
// LevelOff or by an open Disable region.
func (c *Context) Disabled() bool {
	return c == nil || c.off > 0 || c.cfg.Level == LevelOff
}
