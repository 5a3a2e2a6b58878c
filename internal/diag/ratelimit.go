package diag

// rateWindow throttles warning output to a hard ceiling per fixed window.
// The zero value opens its first window on the first admit call.
type rateWindow struct {
	start   int64 // unix seconds at the current window start
	printed int
	skipped int
}

// admitDecision is the outcome of one rate-gate check.
type admitDecision struct {
	ok      bool
	resumed int   // skips recovered by a window rollover, 0 if none
	last    bool  // this admission filled the window
	until   int64 // unix seconds when suppression lifts, set when last
}

// admit decides whether a warning arriving at the given unix time may be
// written. The window only rolls forward: a clock that moves backward keeps
// the current window. Admissions past the ceiling are counted, not written.
func (w *rateWindow) admit(now, window int64, ceiling int) admitDecision {
	var d admitDecision
	if now >= w.start+window {
		w.printed = 0
		w.start = now
		if w.skipped > 0 {
			d.resumed = w.skipped
			w.skipped = 0
		}
	}
	w.printed++
	if w.printed > ceiling {
		w.skipped++
		return d
	}
	d.ok = true
	if w.printed == ceiling {
		d.last = true
		d.until = w.start + window
	}
	return d
}
