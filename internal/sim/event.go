package sim

import "github.com/vovakirdan/realm-rescue/internal/puzzle"

// EventKind identifies what a driver event reports.
type EventKind int

const (
	EventChanged    EventKind = iota // A resolution step changed zone contents
	EventPinRemoved                  // A queued pin removal was applied
	EventReset                       // The puzzle was reset to its level layout
	EventFinished                    // The puzzle reached WON or LOST
)

// String returns the string representation of an event kind.
func (k EventKind) String() string {
	switch k {
	case EventChanged:
		return "changed"
	case EventPinRemoved:
		return "pin_removed"
	case EventReset:
		return "reset"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is emitted by a Driver after every observable change.
type Event struct {
	Kind      EventKind
	Snapshot  puzzle.Snapshot
	Reactions []puzzle.Reaction // Set for EventChanged and EventFinished
	PinID     string            // Set for EventPinRemoved
	Outcome   *puzzle.Outcome   // Set for EventFinished
}
