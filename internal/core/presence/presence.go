// Package presence classifies a user's raw status into the state shown by
// the card's indicator.
package presence

// State is the visual presence state of the card indicator.
type State string

const (
	Online       State = "online"
	Idle         State = "idle"
	DoNotDisturb State = "dnd"
	Offline      State = "offline"
	Streaming    State = "streaming"
)

// Classify maps a raw status ("online", "idle", "dnd", ...) to a State.
// streaming overrides the raw status. Unknown or empty values are Offline.
func Classify(raw string, streaming bool) State {
	if streaming {
		return Streaming
	}

	switch State(raw) {
	case Online, Idle, DoNotDisturb:
		return State(raw)
	default:
		return Offline
	}
}

// Label returns a human readable label for s.
func (s State) Label() string {
	switch s {
	case Online:
		return "Online"
	case Idle:
		return "Idle"
	case DoNotDisturb:
		return "Do Not Disturb"
	case Streaming:
		return "Streaming"
	default:
		return "Offline"
	}
}

// Color returns the indicator color for s as a hex string.
func (s State) Color() string {
	switch s {
	case Online:
		return "#23A55A"
	case Idle:
		return "#F0B232"
	case DoNotDisturb:
		return "#F23F43"
	case Streaming:
		return "#593695"
	default:
		return "#80848E"
	}
}
