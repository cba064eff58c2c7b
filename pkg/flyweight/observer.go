package flyweight

import "time"

// EventKind identifies which branch of a registry operation executed.
type EventKind int

const (
	// EventConstruct: the key was absent and a value was constructed.
	EventConstruct EventKind = iota

	// EventReuse: an existing value was returned unchanged.
	EventReuse

	// EventFailure: the constructor returned an error; nothing was
	// stored for the key.
	EventFailure

	// EventReset: Reset dropped all entries.
	EventReset
)

// String returns the kind's name.
func (k EventKind) String() string {
	switch k {
	case EventConstruct:
		return "construct"
	case EventReuse:
		return "reuse"
	case EventFailure:
		return "failure"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes one registry transition, delivered synchronously to
// the observer registered with WithObserver. Keys are rendered to
// text so observers stay independent of the registry's key type.
type Event struct {
	// Kind is the transition that occurred.
	Kind EventKind

	// Key is the text form of the key involved. Empty for EventReset.
	Key string

	// Duration is the constructor run time. Zero for reuse and reset.
	Duration time.Duration

	// Err is the constructor's error. Non-nil only for EventFailure.
	Err error
}
