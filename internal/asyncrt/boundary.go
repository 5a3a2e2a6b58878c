package asyncrt

import (
	"reflect"
	"runtime"

	"swell/internal/diag"
)

// schedulerEntries collects the entry PCs of the scheduler region.
// A captured frame whose function entry is in this set belongs to the
// executor, not to task code.
func schedulerEntries() map[uintptr]struct{} {
	entries := make(map[uintptr]struct{})
	for _, fn := range []any{
		(*Executor).Run,
		(*Executor).runScheduler,
		(*Executor).pollOne,
	} {
		pc := reflect.ValueOf(fn).Pointer()
		f := runtime.FuncForPC(pc)
		if f == nil {
			continue
		}
		entries[f.Entry()] = struct{}{}
	}
	return entries
}

// isBoundaryPC reports whether a captured PC lies inside the scheduler
// region. Captured PCs are return addresses, so the lookup backs up one
// byte to land inside the calling instruction.
func (e *Executor) isBoundaryPC(pc uintptr) bool {
	if e == nil || len(e.bounds) == 0 {
		return false
	}
	f := runtime.FuncForPC(pc - 1)
	if f == nil {
		return false
	}
	_, ok := e.bounds[f.Entry()]
	return ok
}

// Boundary returns a classifier for scheduler frames, suitable for
// diag.Config.Boundary.
func (e *Executor) Boundary() diag.BoundaryFunc {
	if e == nil {
		return nil
	}
	return e.isBoundaryPC
}

// SuspendedStack returns the logical continuation of the task being
// polled: the park-time frames of each task join-waiting on it, walked
// link by link up the join chain. The walk is cycle-guarded and capped
// at the diagnostic stack depth.
func (e *Executor) SuspendedStack() []uintptr {
	if e == nil || e.current == 0 {
		return nil
	}

	var out []uintptr
	seen := make(map[TaskID]struct{})
	id := e.current
	for id != 0 {
		if _, dup := seen[id]; dup {
			break
		}
		seen[id] = struct{}{}

		waiters := e.park.waiting(JoinKey(id))
		if len(waiters) == 0 {
			break
		}
		// The oldest join waiter is the logical caller.
		parent := waiters[0]
		task := e.tasks[parent]
		if task == nil {
			break
		}
		out = append(out, task.parkFrames...)
		if len(out) >= diag.DefaultStackDepth {
			out = out[:diag.DefaultStackDepth]
			break
		}
		id = parent
	}
	return out
}

// AttachDiagnostics points a diagnostic context at this executor:
// warnings emitted while the scheduler runs classify its frames and
// splice the suspended join chain into their backtraces. Executor
// misuse reports flow to the same context.
func (e *Executor) AttachDiagnostics(c *diag.Context) {
	if e == nil || c == nil {
		return
	}
	e.diagCtx = c
	c.SetBoundary(e.Boundary())
	c.SetSuspended(e.SuspendedStack)
}
