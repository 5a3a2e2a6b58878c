package asyncrt

import (
	"errors"
	"fmt"
	"strconv"

	"swell/internal/trace"
)

// ErrDeadlock reports that parked tasks remain but nothing can wake them.
var ErrDeadlock = errors.New("asyncrt: all tasks parked")

// ErrRunning reports a nested Run call.
var ErrRunning = errors.New("asyncrt: executor already running")

// SetTracer installs the tracer for scheduler events.
func (e *Executor) SetTracer(t trace.Tracer) {
	if e == nil {
		return
	}
	e.tracer = t
}

// SetHeartbeat installs the heartbeat whose progress counter the
// scheduler marks on every poll.
func (e *Executor) SetHeartbeat(h *trace.Heartbeat) {
	if e == nil {
		return
	}
	e.heart = h
}

func (e *Executor) tr() trace.Tracer {
	if e == nil || e.tracer == nil {
		return trace.Nop
	}
	return e.tracer
}

// warnf routes executor misuse reports through the attached diagnostic
// context and mirrors them as trace points.
func (e *Executor) warnf(format string, args ...any) {
	if e == nil {
		return
	}
	if e.diagCtx != nil {
		e.diagCtx.Warnf(format, args...)
	}
	trace.Point(e.tr(), trace.ScopeDiag, "sched.warn", fmt.Sprintf(format, args...), uint64(e.current))
}

// Run drives the scheduler until every task completes.
// It returns ErrDeadlock when tasks remain parked with no pending timer
// to wake them.
func (e *Executor) Run() error {
	if e == nil {
		return nil
	}
	if e.running {
		e.warnf("nested Run call rejected")
		return ErrRunning
	}
	e.running = true
	defer func() { e.running = false }()

	span := trace.Begin(e.tr(), trace.ScopeRuntime, "run", 0, 0)
	err := e.runScheduler()
	if err != nil {
		span.End("deadlock")
		return err
	}
	span.End("ok")
	return nil
}

func (e *Executor) runScheduler() error {
	for {
		id, ok := e.NextReady()
		if !ok {
			if e.liveCount() == 0 {
				// Everything completed; leftover timers of finished
				// tasks never fire.
				return nil
			}
			if e.advanceToNextTimer() {
				continue
			}
			n := e.liveCount()
			e.warnf("cooperative deadlock: %d task(s) parked with no runnable work", n)
			trace.Point(e.tr(), trace.ScopeSched, "deadlock", strconv.Itoa(n), 0)
			return ErrDeadlock
		}
		e.pollOne(id)
		e.heart.Mark()
	}
}

// pollOne runs a single task poll and applies the outcome.
func (e *Executor) pollOne(id TaskID) {
	task := e.tasks[id]
	if task == nil || task.Status == TaskDone {
		return
	}

	prev := e.current
	e.current = id
	task.Status = TaskRunning
	out := task.Fn(&TaskCtx{ex: e, id: id})
	e.current = prev

	trace.Point(e.tr(), trace.ScopeSched, "poll", out.Kind.String(), uint64(id))

	switch out.Kind {
	case PollDoneSuccess:
		e.MarkDone(id, TaskResultSuccess, out.Value)
	case PollDoneCancelled:
		e.MarkDone(id, TaskResultCancelled, out.Value)
	case PollYielded:
		e.Yield(id)
	case PollParked:
		if !out.ParkKey.IsValid() {
			e.warnf("task %d parked without a waker key; rescheduling", id)
			e.Yield(id)
			return
		}
		e.parkTask(id, out.ParkKey)
	}
}
