package asyncrt

import (
	"runtime"

	"swell/internal/diag"
)

// TaskCtx is handed to a task on every poll. It carries the task's
// identity and the blocking-intent operations: the scheduler applies a
// park only when the poll returns the outcome these methods build.
type TaskCtx struct {
	ex *Executor
	id TaskID
}

// ID returns the polled task's ID.
func (tc *TaskCtx) ID() TaskID {
	if tc == nil {
		return 0
	}
	return tc.id
}

// Cancelled reports whether the task has been cancelled.
func (tc *TaskCtx) Cancelled() bool {
	if tc == nil || tc.ex == nil {
		return false
	}
	task := tc.ex.tasks[tc.id]
	return task != nil && task.Cancelled
}

// NowMs returns the executor's current time in milliseconds.
func (tc *TaskCtx) NowMs() uint64 {
	if tc == nil {
		return 0
	}
	return tc.ex.NowMs()
}

// Spawn registers a child task and enqueues it.
func (tc *TaskCtx) Spawn(fn TaskFn) TaskID {
	if tc == nil {
		return 0
	}
	return tc.ex.Spawn(fn)
}

// TaskDone reports whether the given task has completed.
func (tc *TaskCtx) TaskDone(id TaskID) bool {
	if tc == nil {
		return true
	}
	return tc.ex.TaskDone(id)
}

// TaskResult returns the result of a completed task.
func (tc *TaskCtx) TaskResult(id TaskID) (any, TaskResultKind, bool) {
	if tc == nil {
		return nil, TaskResultSuccess, false
	}
	return tc.ex.TaskResult(id)
}

// Cancel marks a task and its descendants cancelled.
func (tc *TaskCtx) Cancel(id TaskID) {
	if tc == nil {
		return
	}
	tc.ex.Cancel(id)
}

// Resume consumes the pending wake reason, if any.
func (tc *TaskCtx) Resume() (ResumeKind, any) {
	if tc == nil || tc.ex == nil {
		return ResumeNone, nil
	}
	task := tc.ex.tasks[tc.id]
	if task == nil {
		return ResumeNone, nil
	}
	kind, value := task.ResumeKind, task.ResumeValue
	task.ResumeKind = ResumeNone
	task.ResumeValue = nil
	return kind, value
}

// ParkJoin parks the task until target completes. Joining a task that
// is already done (or unknown) yields instead of parking.
func (tc *TaskCtx) ParkJoin(target TaskID) PollOutcome {
	if tc == nil || tc.ex == nil {
		return Yielded()
	}
	task := tc.ex.tasks[target]
	if task == nil {
		tc.ex.warnf("join on unknown task %d", target)
		return Yielded()
	}
	if task.Status == TaskDone {
		return Yielded()
	}
	tc.capturePark()
	return Parked(JoinKey(target))
}

// SleepMs schedules a wakeup after delayMs and parks the task on it.
// The wake reason is ResumeTimer.
func (tc *TaskCtx) SleepMs(delayMs uint64) PollOutcome {
	if tc == nil || tc.ex == nil {
		return Yielded()
	}
	id := tc.ex.TimerScheduleAfter(tc.id, delayMs)
	if id == 0 {
		return Yielded()
	}
	tc.capturePark()
	return Parked(TimerKey(id))
}

// ParkSend parks the task until its queued send on ch is consumed.
// Call after SendOrPark returned false on an open channel.
func (tc *TaskCtx) ParkSend(ch ChannelID) PollOutcome {
	if tc == nil || tc.ex == nil {
		return Yielded()
	}
	tc.capturePark()
	return Parked(ChannelSendKey(ch))
}

// ParkRecv parks the task until its queued receive on ch is served.
// Call after RecvOrPark returned ok=false on an open channel.
func (tc *TaskCtx) ParkRecv(ch ChannelID) PollOutcome {
	if tc == nil || tc.ex == nil {
		return Yielded()
	}
	tc.capturePark()
	return Parked(ChannelRecvKey(ch))
}

// TrySend attempts a non-blocking send.
func (tc *TaskCtx) TrySend(ch ChannelID, value any) bool {
	if tc == nil {
		return false
	}
	return tc.ex.ChanTrySend(ch, value)
}

// TryRecv attempts a non-blocking receive.
func (tc *TaskCtx) TryRecv(ch ChannelID) (any, bool) {
	if tc == nil {
		return nil, false
	}
	return tc.ex.ChanTryRecv(ch)
}

// SendOrPark sends, or queues the task as a blocked sender.
// Returns true if the send completed; on false the task should check
// ChanIsClosed and otherwise return ParkSend.
func (tc *TaskCtx) SendOrPark(ch ChannelID, value any) bool {
	if tc == nil {
		return false
	}
	return tc.ex.ChanSendOrPark(ch, value)
}

// RecvOrPark receives, or queues the task as a blocked receiver.
// Returns ok=true with the value; on false the task should check
// ChanIsClosed and otherwise return ParkRecv.
func (tc *TaskCtx) RecvOrPark(ch ChannelID) (any, bool) {
	if tc == nil {
		return nil, false
	}
	return tc.ex.ChanRecvOrPark(ch)
}

// ChanClose closes the channel and wakes its waiters.
func (tc *TaskCtx) ChanClose(ch ChannelID) {
	if tc == nil {
		return
	}
	tc.ex.ChanClose(ch)
}

// ChanIsClosed reports whether the channel is closed.
func (tc *TaskCtx) ChanIsClosed(ch ChannelID) bool {
	if tc == nil {
		return true
	}
	return tc.ex.ChanIsClosed(ch)
}

// capturePark records the task's frames at the moment it decided to
// park, trimmed at the scheduler boundary. The skip count drops
// runtime.Callers, capturePark, and the Park* method so the first
// frame is the task's own call site.
func (tc *TaskCtx) capturePark() {
	if tc == nil || tc.ex == nil {
		return
	}
	task := tc.ex.tasks[tc.id]
	if task == nil {
		return
	}
	pcs := make([]uintptr, diag.DefaultStackDepth)
	n := runtime.Callers(3, pcs)
	pcs = pcs[:n]
	trimmed := pcs
	for i, pc := range pcs {
		if tc.ex.isBoundaryPC(pc) {
			trimmed = pcs[:i]
			break
		}
	}
	task.parkFrames = append([]uintptr(nil), trimmed...)
}
