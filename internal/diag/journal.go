package diag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Event is one journaled diagnostic.
type Event struct {
	Unix     int64
	Severity Severity
	Message  string
	Frames   []uint64
}

// Journal is an append-only msgpack stream of emitted diagnostics. Recording
// is best effort: a journal failure never disturbs the warning path.
type Journal struct {
	f   *os.File
	enc *msgpack.Encoder
}

// OpenJournal opens, creating if needed, an append-only journal at path.
func OpenJournal(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{f: f, enc: msgpack.NewEncoder(f)}, nil
}

// Record appends one event.
func (j *Journal) Record(ev Event) error {
	if j == nil || j.enc == nil {
		return nil
	}
	if err := j.enc.Encode(&ev); err != nil {
		return fmt.Errorf("encode journal event: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil || j.f == nil {
		return nil
	}
	if err := j.f.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}

// ReadJournal decodes every event in a journal file.
func ReadJournal(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "close journal: %v\n", closeErr)
		}
	}()
	dec := msgpack.NewDecoder(f)
	var events []Event
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return nil, fmt.Errorf("decode journal event: %w", err)
		}
		events = append(events, ev)
	}
}

// frameWords converts captured pcs to the journal's fixed-width form.
// A pc that does not fit is dropped rather than mangled.
func frameWords(pcs []uintptr) []uint64 {
	if len(pcs) == 0 {
		return nil
	}
	words := make([]uint64, 0, len(pcs))
	for _, pc := range pcs {
		w, err := safecast.Conv[uint64](pc)
		if err != nil {
			continue
		}
		words = append(words, w)
	}
	return words
}
