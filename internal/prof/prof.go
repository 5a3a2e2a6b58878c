// Package prof wraps the runtime profilers behind a session object so
// commands can switch them on from flags and tear them down in one call.
package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options selects which profilers to start. An empty path leaves the
// corresponding profiler off.
type Options struct {
	CPUPath   string
	HeapPath  string
	TracePath string
}

// Session owns the profilers a command switched on. A nil session is
// inert and Stop on it is a no-op.
type Session struct {
	cpu      *os.File
	trace    *os.File
	heapPath string
}

// Start switches on the requested profilers. On error it stops
// whatever it had already started and returns a nil session.
func Start(opts Options) (*Session, error) {
	s := &Session{heapPath: opts.HeapPath}
	if opts.CPUPath != "" {
		f, err := os.Create(opts.CPUPath)
		if err != nil {
			return nil, fmt.Errorf("create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("start cpu profile: %w", err)
		}
		s.cpu = f
	}
	if opts.TracePath != "" {
		f, err := os.Create(opts.TracePath)
		if err != nil {
			s.halt()
			return nil, fmt.Errorf("create runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.halt()
			return nil, fmt.Errorf("start runtime trace: %w", err)
		}
		s.trace = f
	}
	return s, nil
}

// Stop halts the active profilers in reverse start order, then writes
// the heap profile if one was requested. Calling it twice is safe; the
// second call does nothing.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	s.halt()
	if s.heapPath == "" {
		return nil
	}
	path := s.heapPath
	s.heapPath = ""
	return writeHeap(path)
}

func (s *Session) halt() {
	if s.trace != nil {
		trace.Stop()
		_ = s.trace.Close()
		s.trace = nil
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		_ = s.cpu.Close()
		s.cpu = nil
	}
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write heap profile: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close heap profile: %w", err)
	}
	return nil
}
