package asyncrt

import (
	"fmt"
	"math"
	"strings"
	"time"

	"fortio.org/safecast"
)

// TimerMode controls whether timers use virtual or real time.
type TimerMode uint8

const (
	TimerModeVirtual TimerMode = iota
	TimerModeReal
)

var timerModeNames = [...]string{
	TimerModeVirtual: "virtual",
	TimerModeReal:    "real",
}

// String returns the string representation of the timer mode.
func (m TimerMode) String() string {
	if int(m) < len(timerModeNames) {
		return timerModeNames[m]
	}
	return fmt.Sprintf("TimerMode(%d)", uint8(m))
}

// ParseTimerMode parses a timer mode name.
func ParseTimerMode(value string) (TimerMode, error) {
	want := strings.ToLower(strings.TrimSpace(value))
	for i, name := range timerModeNames {
		if name == want {
			return TimerMode(i), nil
		}
	}
	return TimerModeVirtual, fmt.Errorf("invalid timer mode: %q (expected: virtual|real)", value)
}

// Clock supplies time and blocking behavior for timers.
type Clock interface {
	NowMs() uint64
	SleepUntilMs(deadlineMs uint64)
}

// newClock builds the clock for the configured timer mode.
// Config.Clock overrides both modes.
func newClock(cfg Config, e *Executor) Clock {
	if cfg.Clock != nil {
		return cfg.Clock
	}
	if cfg.TimerMode == TimerModeReal {
		return &RealClock{NowFunc: monotonicMs()}
	}
	return &VirtualClock{ex: e}
}

// monotonicMs returns a millisecond counter anchored at the call time.
func monotonicMs() func() uint64 {
	start := time.Now()
	return func() uint64 {
		ms, err := safecast.Conv[uint64](time.Since(start).Milliseconds())
		if err != nil {
			return 0
		}
		return ms
	}
}

// VirtualClock jumps executor time straight to each deadline. Sleeping
// never blocks, and time never moves backwards.
type VirtualClock struct {
	ex *Executor
}

func (c *VirtualClock) NowMs() uint64 {
	if c == nil || c.ex == nil {
		return 0
	}
	return c.ex.nowMs
}

func (c *VirtualClock) SleepUntilMs(deadlineMs uint64) {
	if c == nil || c.ex == nil {
		return
	}
	if deadlineMs > c.ex.nowMs {
		c.ex.nowMs = deadlineMs
	}
}

// RealClock blocks the OS thread until the requested deadline, counting
// milliseconds from a monotonic anchor.
type RealClock struct {
	NowFunc func() uint64
}

func (c *RealClock) NowMs() uint64 {
	if c == nil || c.NowFunc == nil {
		return 0
	}
	return c.NowFunc()
}

func (c *RealClock) SleepUntilMs(deadlineMs uint64) {
	if c == nil {
		return
	}
	if wait := msUntil(c.NowMs(), deadlineMs); wait > 0 {
		time.Sleep(wait)
	}
}

// msUntil converts the span from nowMs to deadlineMs into a Duration,
// clamping spans too long to represent.
func msUntil(nowMs, deadlineMs uint64) time.Duration {
	if deadlineMs <= nowMs {
		return 0
	}
	delta := deadlineMs - nowMs
	if limit := uint64(math.MaxInt64 / int64(time.Millisecond)); delta > limit {
		delta = limit
	}
	ms, err := safecast.Conv[int64](delta)
	if err != nil {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
