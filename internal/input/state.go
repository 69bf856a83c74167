package input

import (
	"imtest/internal/host"
)

// State is the simulated device state plus the events not yet handed to the
// host.
type State struct {
	MousePos host.Vec2
	Buttons  [host.MouseButtonCount]bool
	Mods     host.KeyMods
	KeysDown map[host.Key]bool
	// Chars holds typed characters the host has not consumed yet.
	Chars []rune
	// Wheel accumulates scrolling since the last drain.
	Wheel host.Vec2

	events []host.Event
}

// NewState returns a state with the pointer parked at pos.
func NewState(pos host.Vec2) *State {
	return &State{MousePos: pos, KeysDown: make(map[host.Key]bool)}
}

func (s *State) push(e host.Event) {
	s.events = append(s.events, e)
}

// Pending returns the number of queued events.
func (s *State) Pending() int { return len(s.events) }

// AnyButtonDown reports whether a mouse button is held.
func (s *State) AnyButtonDown() bool {
	for _, down := range s.Buttons {
		if down {
			return true
		}
	}
	return false
}

// Drain hands over queued events and resets per-frame accumulators.
func (s *State) Drain() []host.Event {
	events := s.events
	s.events = nil
	s.Chars = s.Chars[:0]
	s.Wheel = host.Vec2{}
	return events
}

// ReleaseAll queues release events for every held button and key so the host
// does not see them stuck after a test ends. The pointer stays where it is.
func (s *State) ReleaseAll() {
	for b, down := range s.Buttons {
		if down {
			s.Buttons[b] = false
			s.push(host.Event{Kind: host.EventMouseButton, Button: host.MouseButton(b), Pos: s.MousePos})
		}
	}
	for k := host.KeyNone; k < host.KeyCount; k++ {
		if s.KeysDown[k] {
			s.push(host.Event{Kind: host.EventKey, Key: k})
		}
	}
	s.KeysDown = make(map[host.Key]bool)
	s.Mods = host.ModNone
}
