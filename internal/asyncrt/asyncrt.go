package asyncrt

import (
	"math/rand"

	"swell/internal/diag"
	"swell/internal/trace"
)

// Executor runs cooperative tasks on a single goroutine with a
// deterministic FIFO scheduler by default. Fuzz scheduling is supported
// for reproducible interleavings.
type Executor struct {
	cfg     Config
	nextID  TaskID
	run     readyQueue
	park    parkTable
	tasks   map[TaskID]*Task
	current TaskID
	rng     *rand.Rand

	nowMs       uint64
	clock       Clock
	deadlines   timerQueue
	timerIndex  map[TimerID]*Timer
	nextTimerID TimerID

	channels   map[ChannelID]*Channel
	nextChanID ChannelID

	bounds  map[uintptr]struct{}
	tracer  trace.Tracer
	heart   *trace.Heartbeat
	diagCtx *diag.Context
	running bool
}

// TaskID identifies a spawned task.
type TaskID uint64

// TaskStatus describes task scheduling state.
type TaskStatus uint8

const (
	TaskReady TaskStatus = iota
	TaskRunning
	TaskWaiting
	TaskDone
)

// TaskResultKind describes how a task completed.
type TaskResultKind uint8

const (
	TaskResultSuccess TaskResultKind = iota
	TaskResultCancelled
)

// ResumeKind tells a woken task why it was woken.
type ResumeKind uint8

const (
	// ResumeNone indicates no pending resume reason.
	ResumeNone ResumeKind = iota
	// ResumeChanRecvValue indicates a sender handed the receiver a value.
	ResumeChanRecvValue
	// ResumeChanRecvClosed indicates the channel closed while waiting to receive.
	ResumeChanRecvClosed
	// ResumeChanSendAck indicates a receiver consumed the parked send.
	ResumeChanSendAck
	// ResumeChanSendClosed indicates the channel closed while waiting to send.
	ResumeChanSendClosed
	// ResumeTimer indicates the sleep deadline was reached.
	ResumeTimer
)

// TaskFn is polled by the scheduler until it reports completion.
// Each poll runs to the returned outcome without preemption.
type TaskFn func(tc *TaskCtx) PollOutcome

// Task stores executor-visible task state.
type Task struct {
	ID          TaskID
	Fn          TaskFn
	Status      TaskStatus
	ResultKind  TaskResultKind
	ResultValue any
	ResumeKind  ResumeKind
	ResumeValue any
	Cancelled   bool
	Children    []TaskID

	// parkFrames holds the program counters captured when the task last
	// parked, trimmed at the scheduler boundary.
	parkFrames []uintptr
}

// Config configures executor scheduling behavior.
// FIFO order is deterministic by default; Fuzz draws the next ready task
// from a seeded source instead.
type Config struct {
	Fuzz      bool
	Seed      uint64
	TimerMode TimerMode
	Clock     Clock // optional override for both timer modes
}

// NewExecutor constructs an executor with the provided configuration.
func NewExecutor(cfg Config) *Executor {
	exec := &Executor{
		cfg:    cfg,
		nextID: 1,
		tasks:  make(map[TaskID]*Task),
	}
	exec.clock = newClock(cfg, exec)
	exec.bounds = schedulerEntries()
	if cfg.Fuzz {
		exec.rng = rand.New(rand.NewSource(int64(fuzzSeed(cfg.Seed)))) //nolint:gosec // deterministic scheduler seed
	}
	return exec
}

// fuzzSeed maps the configured seed to a non-zero source so the zero
// seed still draws a fixed sequence.
func fuzzSeed(seed uint64) uint64 {
	if seed == 0 {
		return 1
	}
	return seed
}

// Current returns the ID of the task being polled.
func (e *Executor) Current() TaskID {
	if e == nil {
		return 0
	}
	return e.current
}

// NowMs returns the executor's current time in milliseconds.
func (e *Executor) NowMs() uint64 {
	if e == nil {
		return 0
	}
	return e.nowMs
}

// Task returns a task by ID.
func (e *Executor) Task(id TaskID) *Task {
	if e == nil {
		return nil
	}
	return e.tasks[id]
}

// TaskDone reports whether the task has completed. Unknown IDs count as
// done: a drained task no longer exists.
func (e *Executor) TaskDone(id TaskID) bool {
	if e == nil {
		return true
	}
	task := e.tasks[id]
	if task == nil {
		return true
	}
	return task.Status == TaskDone
}

// TaskResult returns the result of a completed task.
func (e *Executor) TaskResult(id TaskID) (any, TaskResultKind, bool) {
	if e == nil {
		return nil, TaskResultSuccess, false
	}
	task := e.tasks[id]
	if task == nil || task.Status != TaskDone {
		return nil, TaskResultSuccess, false
	}
	return task.ResultValue, task.ResultKind, true
}

// Spawn registers a task and enqueues it for execution. When called
// from inside a poll, the new task becomes a child of the caller.
func (e *Executor) Spawn(fn TaskFn) TaskID {
	if e == nil {
		return 0
	}
	if fn == nil {
		e.warnf("spawn with nil poll function")
		return 0
	}
	id := e.allocTaskID()
	if e.tasks == nil {
		e.tasks = make(map[TaskID]*Task)
	}
	e.tasks[id] = &Task{ID: id, Fn: fn, Status: TaskReady}
	e.adopt(id)
	e.enqueue(id)
	trace.Point(e.tr(), trace.ScopeTask, "task.spawn", "", uint64(id))
	return id
}

func (e *Executor) allocTaskID() TaskID {
	if e.nextID == 0 {
		e.nextID = 1
	}
	id := e.nextID
	e.nextID++
	return id
}

// adopt records the newest task as a child of the task being polled so
// Cancel can walk the tree.
func (e *Executor) adopt(id TaskID) {
	if e.current == 0 {
		return
	}
	if parent := e.tasks[e.current]; parent != nil {
		parent.Children = append(parent.Children, id)
	}
}

// NextReady pops the next runnable task according to scheduler policy.
// Queue entries for tasks that completed in the meantime are discarded
// on the way.
func (e *Executor) NextReady() (TaskID, bool) {
	if e == nil {
		return 0, false
	}
	for e.run.size() > 0 {
		id := e.run.takeAt(e.pickSlot())
		if task := e.tasks[id]; task != nil && task.Status != TaskDone {
			return id, true
		}
	}
	return 0, false
}

// pickSlot chooses which run-queue slot polls next: the head for FIFO,
// a seeded draw under fuzz scheduling.
func (e *Executor) pickSlot() int {
	if !e.cfg.Fuzz {
		return 0
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(int64(fuzzSeed(e.cfg.Seed)))) //nolint:gosec // deterministic scheduler seed
	}
	return e.rng.Intn(e.run.size())
}

// Wake unparks a task and enqueues it if it is not done.
func (e *Executor) Wake(id TaskID) {
	if e == nil {
		return
	}
	task := e.tasks[id]
	if task == nil {
		e.warnf("wake for unknown task %d", id)
		return
	}
	if task.Status == TaskDone {
		return
	}
	e.park.release(id)
	e.enqueue(id)
	trace.Point(e.tr(), trace.ScopeTask, "task.wake", "", uint64(id))
}

// deliver stamps the wake reason on a live task and schedules it.
// Missing or completed tasks are skipped.
func (e *Executor) deliver(id TaskID, kind ResumeKind, value any) bool {
	if e == nil || id == 0 {
		return false
	}
	task := e.tasks[id]
	if task == nil || task.Status == TaskDone {
		return false
	}
	task.ResumeKind = kind
	task.ResumeValue = value
	e.Wake(id)
	return true
}

// Yield requeues a task after it voluntarily yielded.
func (e *Executor) Yield(id TaskID) {
	if e == nil {
		return
	}
	if task := e.tasks[id]; task == nil || task.Status == TaskDone {
		return
	}
	e.enqueue(id)
}

// WakeKeyAll wakes every task waiting on a key, oldest first.
func (e *Executor) WakeKeyAll(key WakerKey) {
	if e == nil || !key.IsValid() {
		return
	}
	for _, id := range e.park.takeAll(key) {
		e.Wake(id)
	}
}

// MarkDone marks a task as completed and wakes its join waiters.
func (e *Executor) MarkDone(id TaskID, kind TaskResultKind, result any) {
	if e == nil {
		return
	}
	task := e.tasks[id]
	if task == nil {
		return
	}
	task.ResultKind = kind
	task.ResultValue = result
	task.Status = TaskDone
	e.park.release(id)
	trace.Point(e.tr(), trace.ScopeTask, "task.done", kindDetail(kind), uint64(id))
	e.WakeKeyAll(JoinKey(id))
}

func kindDetail(kind TaskResultKind) string {
	if kind == TaskResultCancelled {
		return "cancelled"
	}
	return ""
}

// Cancel marks a task (and its descendants) as cancelled and wakes any
// of them that are parked so they can observe the cancellation.
func (e *Executor) Cancel(id TaskID) {
	if e == nil {
		return
	}
	e.cancelRecursive(id)
}

func (e *Executor) cancelRecursive(id TaskID) {
	if e == nil {
		return
	}
	task := e.tasks[id]
	if task == nil || task.Status == TaskDone {
		return
	}
	if !task.Cancelled {
		task.Cancelled = true
		if e.park.contains(id) {
			e.Wake(id)
		}
	}
	for _, child := range task.Children {
		e.cancelRecursive(child)
	}
}

func (e *Executor) enqueue(id TaskID) {
	if e == nil || !e.run.push(id) {
		return
	}
	if task := e.tasks[id]; task != nil && task.Status != TaskDone {
		task.Status = TaskReady
	}
}

func (e *Executor) parkTask(id TaskID, key WakerKey) {
	if e == nil || !key.IsValid() {
		return
	}
	task := e.tasks[id]
	if task == nil || task.Status == TaskDone {
		return
	}
	e.park.park(id, key)
	task.Status = TaskWaiting
	trace.Point(e.tr(), trace.ScopeTask, "task.park", key.Kind.String(), uint64(id))
}

// liveCount returns the number of tasks that have not completed.
func (e *Executor) liveCount() int {
	if e == nil {
		return 0
	}
	n := 0
	for _, task := range e.tasks {
		if task != nil && task.Status != TaskDone {
			n++
		}
	}
	return n
}

// DrainTasks returns all tasks and resets executor queues so the
// executor can be reused for another run. Executor time keeps advancing
// across drains.
func (e *Executor) DrainTasks() []*Task {
	if e == nil {
		return nil
	}
	var tasks []*Task
	if len(e.tasks) > 0 {
		tasks = make([]*Task, 0, len(e.tasks))
		for _, task := range e.tasks {
			tasks = append(tasks, task)
		}
	}
	e.tasks = make(map[TaskID]*Task)
	e.run.reset()
	e.park.reset()
	e.deadlines = nil
	if e.timerIndex != nil {
		clear(e.timerIndex)
	}
	if e.channels != nil {
		clear(e.channels)
	}
	e.current = 0
	return tasks
}
