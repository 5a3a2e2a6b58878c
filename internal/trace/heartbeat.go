package trace

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Heartbeat periodically emits liveness events so a stalled run can be
// told apart from a quiet one. A cooperative scheduler shares one
// thread with its tasks: when heartbeats keep arriving with no polls
// between them, some task is holding the thread without yielding.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	polls    atomic.Uint64 // scheduler progress since the last beat
	done     chan struct{}
	stop     sync.Once
	wg       sync.WaitGroup
}

// StartHeartbeat spawns a goroutine beating at the given interval.
// Disabled tracers and non-positive intervals yield nil; a nil
// Heartbeat still accepts Mark and Stop.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: tracer, interval: interval, done: make(chan struct{})}
	h.wg.Add(1)
	go h.loop()
	return h
}

// Mark records one unit of scheduler progress. The scheduler thread
// bumps it on every poll while the beat goroutine drains it.
func (h *Heartbeat) Mark() {
	if h == nil {
		return
	}
	h.polls.Add(1)
}

func (h *Heartbeat) loop() {
	defer h.wg.Done()
	tick := time.NewTicker(h.interval)
	defer tick.Stop()
	for n := uint64(1); ; n++ {
		select {
		case <-h.done:
			return
		case <-tick.C:
			h.beat(n)
		}
	}
}

// beat emits one liveness event carrying the poll count observed since
// the previous beat. A zero count means no task yielded in a whole
// interval, so the event is flagged as stalled.
func (h *Heartbeat) beat(n uint64) {
	polls := h.polls.Swap(0)
	detail := fmt.Sprintf("#%d polls=%d", n, polls)
	if polls == 0 {
		detail += " stalled"
	}
	emit(h.tracer, Event{Kind: KindHeartbeat, Scope: ScopeRuntime, Name: "heartbeat", Detail: detail})
}

// Stop ends the beat goroutine and waits for it to exit. Stopping
// twice is harmless.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stop.Do(func() {
		close(h.done)
		h.wg.Wait()
	})
}
