package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives the runtime's trace events. Emit must be safe to
// call from multiple goroutines; the heartbeat ticks on its own.
type Tracer interface {
	Emit(ev Event)

	// Flush pushes buffered output toward its sink.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	Level() Level

	// Enabled is false only for the nop tracer. Call sites use it to
	// skip building events nobody will see.
	Enabled() bool
}

// Nop is the tracer used when tracing is off: every method is a no-op
// and Enabled is false.
var Nop Tracer = nopTracer{}

type nopTracer struct{}

func (nopTracer) Emit(Event)    {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// StorageMode determines where emitted events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write each event as it happens
	ModeRing                          // keep the last N in memory
	ModeBoth                          // stream + ring
)

var modeNames = [...]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

// String returns the flag spelling of the mode.
func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode converts a flag or config spelling to a StorageMode.
// Matching is case-insensitive.
func ParseMode(s string) (StorageMode, error) {
	want := strings.ToLower(s)
	for i, name := range modeNames {
		if name != "" && name == want {
			return StorageMode(i), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

const defaultRingSize = 4096

// Config holds tracer configuration.
type Config struct {
	Level Level
	Mode  StorageMode

	// Stream sink. Output wins when set; otherwise OutputPath is
	// opened, with "" and "-" meaning stderr.
	Format     Format
	Output     io.Writer
	OutputPath string

	RingSize  int           // ring capacity, defaultRingSize when <= 0
	Heartbeat time.Duration // heartbeat interval, 0 disables it
}

// resolveFormat pins FormatAuto to a concrete renderer. NDJSON output
// paths get NDJSON; everything else streams text.
func (cfg Config) resolveFormat() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
		return FormatNDJSON
	}
	return FormatText
}

// New builds the tracer the config asks for. Level off yields Nop no
// matter the mode.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}

	needStream := cfg.Mode == ModeStream || cfg.Mode == ModeBoth
	needRing := cfg.Mode == ModeRing || cfg.Mode == ModeBoth
	if !needStream && !needRing {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	var backends []Tracer
	if needStream {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		backends = append(backends, NewStreamTracer(w, cfg.Level, cfg.resolveFormat()))
	}
	if needRing {
		backends = append(backends, NewRingTracer(cfg.RingSize, cfg.Level))
	}
	if len(backends) == 1 {
		return backends[0], nil
	}
	return NewMultiTracer(cfg.Level, backends...), nil
}

// openOutput picks the stream destination: an explicit writer wins,
// then a file path, with "-" and empty meaning stderr.
func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
