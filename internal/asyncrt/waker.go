package asyncrt

// WakerKind identifies a wait queue category.
type WakerKind uint8

const (
	WakerInvalid     WakerKind = iota // zero key, never queued
	WakerJoin                         // waiting for a task to finish
	WakerChannelRecv                  // waiting for a value or a close
	WakerChannelSend                  // waiting for buffer space or a receiver
	WakerTimer                        // waiting for a deadline
)

var wakerKindNames = [...]string{
	WakerInvalid:     "invalid",
	WakerJoin:        "join",
	WakerChannelRecv: "chan.recv",
	WakerChannelSend: "chan.send",
	WakerTimer:       "timer",
}

func (k WakerKind) String() string {
	if int(k) < len(wakerKindNames) {
		return wakerKindNames[k]
	}
	return "invalid"
}

// WakerKey names one wait queue: a kind plus the identifier it points
// at (task, channel or timer). The zero key is invalid and never
// queued.
type WakerKey struct {
	Kind WakerKind
	ID   uint64
}

// IsValid reports whether the key is usable for waiting.
func (k WakerKey) IsValid() bool { return k.Kind != WakerInvalid }

// JoinKey is the wait key of tasks joining on target.
func JoinKey(target TaskID) WakerKey { return WakerKey{WakerJoin, uint64(target)} }

// ChannelRecvKey is the wait key of receivers parked on a channel.
func ChannelRecvKey(ch ChannelID) WakerKey { return WakerKey{WakerChannelRecv, uint64(ch)} }

// ChannelSendKey is the wait key of senders parked on a channel.
func ChannelSendKey(ch ChannelID) WakerKey { return WakerKey{WakerChannelSend, uint64(ch)} }

// TimerKey is the wait key of the task sleeping on a timer.
func TimerKey(id TimerID) WakerKey { return WakerKey{WakerTimer, uint64(id)} }
