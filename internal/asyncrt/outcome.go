package asyncrt

// PollOutcomeKind reports how a poll iteration completed.
type PollOutcomeKind uint8

const (
	PollDoneSuccess   PollOutcomeKind = iota // task finished with a result
	PollDoneCancelled                        // task acknowledged its cancellation
	PollYielded                              // task wants another poll soon
	PollParked                               // task waits on ParkKey
)

var pollOutcomeNames = [...]string{
	PollDoneSuccess:   "done",
	PollDoneCancelled: "cancelled",
	PollYielded:       "yielded",
	PollParked:        "parked",
}

func (k PollOutcomeKind) String() string {
	if int(k) < len(pollOutcomeNames) {
		return pollOutcomeNames[k]
	}
	return "unknown"
}

// PollOutcome is what a task function hands back to the scheduler at
// the end of each poll.
type PollOutcome struct {
	Kind    PollOutcomeKind
	Value   any
	ParkKey WakerKey
}

// Done builds a successful completion outcome carrying the task result.
func Done(value any) PollOutcome { return PollOutcome{Kind: PollDoneSuccess, Value: value} }

// Cancelled builds a cancelled completion outcome.
func Cancelled() PollOutcome { return PollOutcome{Kind: PollDoneCancelled} }

// Yielded builds an outcome that requeues the task.
func Yielded() PollOutcome { return PollOutcome{Kind: PollYielded} }

// Parked builds an outcome that parks the task on the given key.
func Parked(key WakerKey) PollOutcome { return PollOutcome{Kind: PollParked, ParkKey: key} }
