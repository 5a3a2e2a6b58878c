package asyncrt

// readyQueue is the run queue. A membership set makes double enqueues
// idempotent without scanning the slice.
type readyQueue struct {
	order  []TaskID
	queued map[TaskID]struct{}
}

func (q *readyQueue) size() int {
	return len(q.order)
}

// push appends id unless it is already queued.
func (q *readyQueue) push(id TaskID) bool {
	if q.queued == nil {
		q.queued = make(map[TaskID]struct{})
	}
	if _, dup := q.queued[id]; dup {
		return false
	}
	q.order = append(q.order, id)
	q.queued[id] = struct{}{}
	return true
}

// takeAt removes and returns the entry at idx, preserving the order of
// the rest.
func (q *readyQueue) takeAt(idx int) TaskID {
	id := q.order[idx]
	q.order = append(q.order[:idx], q.order[idx+1:]...)
	delete(q.queued, id)
	return id
}

func (q *readyQueue) reset() {
	q.order = nil
	clear(q.queued)
}

// parkTable records which waker key each parked task sleeps on, plus
// the reverse index: the tasks waiting on a key, oldest first.
type parkTable struct {
	byKey  map[WakerKey][]TaskID
	byTask map[TaskID]WakerKey
}

// park moves id onto key's wait list. A task parked on the same key
// again stays where it is; a different key relocates it.
func (p *parkTable) park(id TaskID, key WakerKey) {
	if p.byKey == nil {
		p.byKey = make(map[WakerKey][]TaskID)
		p.byTask = make(map[TaskID]WakerKey)
	}
	if prev, ok := p.byTask[id]; ok {
		if prev == key {
			return
		}
		p.drop(prev, id)
	}
	p.byTask[id] = key
	p.byKey[key] = append(p.byKey[key], id)
}

// release forgets a parked task and reports whether it was parked.
func (p *parkTable) release(id TaskID) bool {
	key, ok := p.byTask[id]
	if !ok {
		return false
	}
	delete(p.byTask, id)
	p.drop(key, id)
	return true
}

// contains reports whether the task is parked.
func (p *parkTable) contains(id TaskID) bool {
	_, ok := p.byTask[id]
	return ok
}

// waiting returns the tasks parked on key, oldest first. The slice is
// the table's own; callers must not mutate it.
func (p *parkTable) waiting(key WakerKey) []TaskID {
	return p.byKey[key]
}

// takeAll removes and returns every task parked on key.
func (p *parkTable) takeAll(key WakerKey) []TaskID {
	ids := p.byKey[key]
	if len(ids) == 0 {
		return nil
	}
	delete(p.byKey, key)
	for _, id := range ids {
		delete(p.byTask, id)
	}
	return ids
}

// drop removes one task from a key's wait list, keeping order.
func (p *parkTable) drop(key WakerKey, id TaskID) {
	ids := p.byKey[key]
	for i, waiter := range ids {
		if waiter != id {
			continue
		}
		ids = append(ids[:i], ids[i+1:]...)
		break
	}
	if len(ids) == 0 {
		delete(p.byKey, key)
		return
	}
	p.byKey[key] = ids
}

func (p *parkTable) reset() {
	clear(p.byKey)
	clear(p.byTask)
}
