package trace

import "errors"

// MultiTracer fans every event out to a fixed set of backends, typically a
// live stream plus a post-mortem ring. Each backend applies its own scope
// filter, so a ring at LevelError still records what the stream drops.
type MultiTracer struct {
	level    Level
	backends []Tracer
}

// NewMultiTracer builds a fan-out over the given backends.
func NewMultiTracer(level Level, backends ...Tracer) *MultiTracer {
	return &MultiTracer{level: level, backends: backends}
}

// Emit forwards the event to every backend.
func (t *MultiTracer) Emit(ev Event) {
	if t == nil {
		return
	}
	for _, b := range t.backends {
		b.Emit(ev)
	}
}

// Flush flushes every backend and joins their failures.
func (t *MultiTracer) Flush() error {
	if t == nil {
		return nil
	}
	var errs []error
	for _, b := range t.backends {
		errs = append(errs, b.Flush())
	}
	return errors.Join(errs...)
}

// Close closes every backend and joins their failures.
func (t *MultiTracer) Close() error {
	if t == nil {
		return nil
	}
	var errs []error
	for _, b := range t.backends {
		errs = append(errs, b.Close())
	}
	return errors.Join(errs...)
}

// Level returns the configured level.
func (t *MultiTracer) Level() Level {
	if t == nil {
		return LevelOff
	}
	return t.level
}

// Enabled reports whether any events can flow.
func (t *MultiTracer) Enabled() bool {
	return t != nil && t.level > LevelOff
}
