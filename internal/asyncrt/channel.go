package asyncrt

import "fortio.org/safecast"

// ChannelID identifies a channel instance.
type ChannelID uint64

// pendingSend is a parked sender and the value it is waiting to hand off.
type pendingSend struct {
	task  TaskID
	value any
}

// valueQueue is a FIFO of channel payloads. Pop slides a head index
// instead of reslicing so draining a burst does not shift the tail on
// every element.
type valueQueue struct {
	items []any
	head  int
}

func (q *valueQueue) size() int {
	return len(q.items) - q.head
}

func (q *valueQueue) push(v any) {
	q.items = append(q.items, v)
}

func (q *valueQueue) pop() (any, bool) {
	if q.size() == 0 {
		return nil, false
	}
	v := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= 64 && q.head*2 >= len(q.items):
		// Fresh backing array so popped slots do not pin their values.
		q.items = append([]any(nil), q.items[q.head:]...)
		q.head = 0
	}
	return v, true
}

// Channel is a FIFO owned by one executor. All operations happen on
// the scheduler thread, so there is no locking anywhere in here.
type Channel struct {
	id     ChannelID
	cap    uint64
	closed bool

	queue       valueQueue
	waitingRecv []TaskID
	waitingSend []pendingSend
}

// hasSpace reports whether the buffer can take one more value.
// Rendezvous channels (cap 0) never have space; they complete sends
// only by direct handoff.
func (ch *Channel) hasSpace() bool {
	if ch == nil || ch.cap == 0 {
		return false
	}
	used, err := safecast.Conv[uint64](ch.queue.size())
	if err != nil {
		return false
	}
	return used < ch.cap
}

// nextReceiver pops the longest-waiting receiver task.
func (ch *Channel) nextReceiver() (TaskID, bool) {
	if len(ch.waitingRecv) == 0 {
		return 0, false
	}
	id := ch.waitingRecv[0]
	ch.waitingRecv = ch.waitingRecv[1:]
	return id, true
}

// nextSender pops the longest-waiting live sender. Senders whose task
// completed in the meantime are dropped along with their value.
func (ch *Channel) nextSender(e *Executor) (pendingSend, bool) {
	for len(ch.waitingSend) > 0 {
		ps := ch.waitingSend[0]
		ch.waitingSend = ch.waitingSend[1:]
		if e != nil {
			task := e.tasks[ps.task]
			if task == nil || task.Status == TaskDone {
				continue
			}
		}
		return ps, true
	}
	return pendingSend{}, false
}

// placeValue hands the value to a parked receiver or buffers it.
func (ch *Channel) placeValue(e *Executor, value any) bool {
	for {
		taskID, ok := ch.nextReceiver()
		if !ok {
			break
		}
		if e.deliver(taskID, ResumeChanRecvValue, value) {
			return true
		}
	}
	if ch.hasSpace() {
		ch.queue.push(value)
		return true
	}
	return false
}

// takeValue drains the buffer first so values keep arriving in send
// order, then accepts a direct handoff from a parked sender.
func (ch *Channel) takeValue(e *Executor) (any, bool) {
	if v, ok := ch.queue.pop(); ok {
		ch.pullParkedSender(e)
		return v, true
	}
	if ps, ok := ch.nextSender(e); ok {
		e.deliver(ps.task, ResumeChanSendAck, nil)
		return ps.value, true
	}
	return nil, false
}

// pullParkedSender tops the buffer back up after a receive opened a
// slot, acknowledging the sender whose value moved in.
func (ch *Channel) pullParkedSender(e *Executor) {
	if !ch.hasSpace() {
		return
	}
	ps, ok := ch.nextSender(e)
	if !ok {
		return
	}
	ch.queue.push(ps.value)
	e.deliver(ps.task, ResumeChanSendAck, nil)
}

// ChanNew allocates a channel. Capacity 0 means rendezvous.
func (e *Executor) ChanNew(capacity uint64) ChannelID {
	if e == nil {
		return 0
	}
	if e.nextChanID == 0 {
		e.nextChanID = 1
	}
	if e.channels == nil {
		e.channels = make(map[ChannelID]*Channel)
	}
	id := e.nextChanID
	e.nextChanID++
	e.channels[id] = &Channel{id: id, cap: capacity}
	return id
}

// ChanIsClosed reports whether the channel is closed. Unknown IDs count
// as closed.
func (e *Executor) ChanIsClosed(id ChannelID) bool {
	if e == nil {
		return true
	}
	ch := e.channels[id]
	return ch == nil || ch.closed
}

// ChanClose marks the channel closed and wakes every parked waiter.
// Receivers resume with the closed kind; senders additionally get their
// undelivered value back in the resume payload.
func (e *Executor) ChanClose(id ChannelID) {
	if e == nil {
		return
	}
	ch := e.channels[id]
	if ch == nil || ch.closed {
		return
	}
	ch.closed = true

	for _, taskID := range ch.waitingRecv {
		e.deliver(taskID, ResumeChanRecvClosed, nil)
	}
	for _, ps := range ch.waitingSend {
		e.deliver(ps.task, ResumeChanSendClosed, ps.value)
	}
	ch.waitingRecv, ch.waitingSend = nil, nil
}

// ChanTrySend attempts a send without parking. It fails on closed
// channels and on full ones with no parked receiver.
func (e *Executor) ChanTrySend(id ChannelID, value any) bool {
	if e == nil {
		return false
	}
	ch := e.channels[id]
	if ch == nil || ch.closed {
		return false
	}
	return ch.placeValue(e, value)
}

// ChanTryRecv attempts a receive without parking. ok is false when
// nothing is immediately available.
func (e *Executor) ChanTryRecv(id ChannelID) (any, bool) {
	if e == nil {
		return nil, false
	}
	ch := e.channels[id]
	if ch == nil {
		return nil, false
	}
	return ch.takeValue(e)
}

// ChanSendOrPark completes the send if it can, otherwise queues the
// current task as a pending sender and returns false. The caller must
// then park with ParkSend; the queued value is delivered on its behalf
// and acknowledged with ResumeChanSendAck.
func (e *Executor) ChanSendOrPark(id ChannelID, value any) bool {
	if e == nil {
		return false
	}
	ch := e.channels[id]
	if ch == nil || ch.closed {
		return false
	}
	if ch.placeValue(e, value) {
		return true
	}
	current := e.Current()
	if current == 0 {
		return false
	}
	if task := e.tasks[current]; task != nil && task.Cancelled {
		return false
	}
	ch.waitingSend = append(ch.waitingSend, pendingSend{task: current, value: value})
	return false
}

// ChanRecvOrPark completes the receive if it can, otherwise queues the
// current task as a waiting receiver and returns ok=false. A closed
// drained channel also reports ok=false; callers distinguish the two
// via ChanIsClosed.
func (e *Executor) ChanRecvOrPark(id ChannelID) (any, bool) {
	if e == nil {
		return nil, false
	}
	ch := e.channels[id]
	if ch == nil {
		return nil, false
	}
	if v, ok := ch.takeValue(e); ok {
		return v, true
	}
	if ch.closed {
		return nil, false
	}
	current := e.Current()
	if current == 0 {
		return nil, false
	}
	if task := e.tasks[current]; task != nil && task.Cancelled {
		return nil, false
	}
	ch.waitingRecv = append(ch.waitingRecv, current)
	return nil, false
}
