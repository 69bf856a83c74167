package host

import "fmt"

// EventKind tells which field of an Event is meaningful.
type EventKind int

const (
	EventMousePos EventKind = iota
	EventMouseButton
	EventMouseWheel
	EventKey
	EventChar
)

// Event is one simulated input change, queued by the engine and consumed by
// the host when it polls input at the start of a frame.
type Event struct {
	Kind   EventKind
	Pos    Vec2
	Button MouseButton
	Down   bool
	Wheel  Vec2
	Key    Key
	Mods   KeyMods
	Char   rune
}

func (e Event) String() string {
	switch e.Kind {
	case EventMousePos:
		return fmt.Sprintf("MousePos %s", e.Pos)
	case EventMouseButton:
		return fmt.Sprintf("MouseButton %s down=%t", e.Button, e.Down)
	case EventMouseWheel:
		return fmt.Sprintf("MouseWheel %s", e.Wheel)
	case EventKey:
		return fmt.Sprintf("Key %s mods=%s down=%t", e.Key, e.Mods, e.Down)
	case EventChar:
		return fmt.Sprintf("Char %q", e.Char)
	default:
		return "Unknown"
	}
}

// InputSource hands the host the events queued since the previous frame.
type InputSource interface {
	DrainInputs() []Event
}
