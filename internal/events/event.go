package events

// Kind tags an Event.
type Kind int

const (
	KindStatusChanged Kind = iota + 1
	KindRefreshRequested
)

func (k Kind) String() string {
	switch k {
	case KindStatusChanged:
		return "status_changed"
	case KindRefreshRequested:
		return "refresh_requested"
	default:
		return "unknown"
	}
}

// Event is a unit of state change pushed from the scheduler to the consumer.
// Text is set for StatusChanged only.
type Event struct {
	Kind Kind
	Text string
}

// StatusChanged builds a status event.
func StatusChanged(text string) Event {
	return Event{Kind: KindStatusChanged, Text: text}
}

// RefreshRequested builds a refresh event.
func RefreshRequested() Event {
	return Event{Kind: KindRefreshRequested}
}
