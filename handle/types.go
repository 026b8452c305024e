package handle

// Event types for ownership group notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventJoined
	EventLeft
	EventFreed
	EventMoved
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventJoined:
		return "joined"
	case EventLeft:
		return "left"
	case EventFreed:
		return "freed"
	case EventMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Event represents an ownership group lifecycle event.
// Refs is the group's count after the operation.
type Event struct {
	Value any
	Label string
	Group uint64
	Refs  uint32
	Type  EventType
}

// Observer receives notifications about ownership group events.
type Observer interface {
	OnHandleEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnHandleEvent calls f(e).
func (f ObserverFunc) OnHandleEvent(e Event) {
	f(e)
}

// Dropper is optionally implemented by pointees that need cleanup.
// Drop is called exactly once, when the last owner releases the group.
type Dropper interface {
	Drop()
}

// Options configures a new ownership group. Every handle that later joins
// the group shares the same options.
type Options struct {
	// Label names the group in logs, events and errors.
	Label string

	// Observers are notified synchronously, in order, on every group event.
	Observers []Observer
}
