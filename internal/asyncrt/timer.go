package asyncrt

import (
	"container/heap"
	"strconv"

	"swell/internal/trace"
)

// TimerID identifies a scheduled timer.
type TimerID uint64

// Timer is a single scheduled wakeup. A fired or cancelled timer stays
// in the queue with cancelled set until it surfaces and is dropped.
type Timer struct {
	id        TimerID
	dueMs     uint64
	taskID    TaskID
	cancelled bool
}

// timerQueue orders timers by deadline, then by ID so simultaneous
// deadlines fire in schedule order.
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.dueMs != b.dueMs {
		return a.dueMs < b.dueMs
	}
	return a.id < b.id
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) {
	if timer, ok := x.(*Timer); ok && timer != nil {
		*q = append(*q, timer)
	}
}

// Pop nils out the vacated slot so a popped timer is not pinned by the
// queue's backing array.
func (q *timerQueue) Pop() any {
	n := len(*q)
	if n == 0 {
		return (*Timer)(nil)
	}
	timer := (*q)[n-1]
	(*q)[n-1] = nil
	*q = (*q)[:n-1]
	return timer
}

// TimerScheduleAfter schedules a wakeup for taskID at now + delayMs and
// returns the timer's ID. The task parks on TimerKey(id) and resumes
// with ResumeTimer.
func (e *Executor) TimerScheduleAfter(taskID TaskID, delayMs uint64) TimerID {
	if e == nil {
		return 0
	}
	timer := &Timer{id: e.allocTimerID(), dueMs: e.nowMs + delayMs, taskID: taskID}
	if e.timerIndex == nil {
		e.timerIndex = make(map[TimerID]*Timer)
	}
	e.timerIndex[timer.id] = timer
	heap.Push(&e.deadlines, timer)
	return timer.id
}

// allocTimerID hands out timer IDs starting at 1; 0 means no timer.
func (e *Executor) allocTimerID() TimerID {
	if e.nextTimerID == 0 {
		e.nextTimerID = 1
	}
	id := e.nextTimerID
	e.nextTimerID++
	return id
}

// TimerCancel marks a timer as cancelled. The queue drops it lazily.
func (e *Executor) TimerCancel(id TimerID) {
	if e == nil || id == 0 {
		return
	}
	if timer := e.timerIndex[id]; timer != nil {
		timer.cancelled = true
		delete(e.timerIndex, id)
	}
}

// TimerActive reports whether a timer is still pending.
func (e *Executor) TimerActive(id TimerID) bool {
	if e == nil || id == 0 {
		return false
	}
	timer := e.timerIndex[id]
	return timer != nil && !timer.cancelled
}

// advanceToNextTimer blocks (real clock) or jumps (virtual clock) to
// the next live deadline and fires everything due by then. Returns
// false when no live timers remain.
func (e *Executor) advanceToNextTimer() bool {
	if e == nil {
		return false
	}
	next := e.popLiveTimer()
	if next == nil {
		return false
	}
	e.clock.SleepUntilMs(next.dueMs)
	if now := e.clock.NowMs(); now > e.nowMs {
		e.nowMs = now
	}
	e.expireTimer(next)

	// Deadlines reached while we slept fire in the same wave, in
	// deadline order.
	for {
		top := e.peekLiveTimer()
		if top == nil || top.dueMs > e.nowMs {
			return true
		}
		e.expireTimer(e.popLiveTimer())
	}
}

// popLiveTimer removes and returns the earliest non-cancelled timer.
func (e *Executor) popLiveTimer() *Timer {
	for len(e.deadlines) > 0 {
		timer, ok := heap.Pop(&e.deadlines).(*Timer)
		if !ok || timer == nil || timer.cancelled {
			continue
		}
		return timer
	}
	return nil
}

// peekLiveTimer returns the earliest non-cancelled timer without
// removing it, discarding cancelled entries along the way.
func (e *Executor) peekLiveTimer() *Timer {
	for len(e.deadlines) > 0 {
		top := e.deadlines[0]
		if top == nil || top.cancelled {
			heap.Pop(&e.deadlines)
			continue
		}
		return top
	}
	return nil
}

// expireTimer retires a due timer and wakes whatever waits on it: a
// parked task directly, or the timer's wait queue when no task is
// bound.
func (e *Executor) expireTimer(timer *Timer) {
	if e == nil || timer == nil {
		return
	}
	timer.cancelled = true
	delete(e.timerIndex, timer.id)
	trace.Point(e.tr(), trace.ScopeSched, "timer.fire", strconv.FormatUint(uint64(timer.id), 10), uint64(timer.taskID))
	if timer.taskID != 0 {
		e.deliver(timer.taskID, ResumeTimer, nil)
		return
	}
	e.WakeKeyAll(TimerKey(timer.id))
}
