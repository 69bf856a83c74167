package input

import (
	"fmt"
	"time"

	"imtest/internal/host"
	"imtest/internal/registry"
)

// Click presses and releases b in separate frames. Human modes hold the
// button for ActionDelayShort.
func (s *Simulator) Click(b host.MouseButton) {
	s.ButtonDown(b)
	s.SleepShort()
	s.ButtonUp(b)
}

// DoubleClick issues two press/release pairs on consecutive frames so they
// land inside the host's double-click window at any speed.
func (s *Simulator) DoubleClick(b host.MouseButton) {
	for i := 0; i < 2; i++ {
		s.ButtonDown(b)
		s.ButtonUp(b)
	}
}

// Drag presses b at from, moves to to and releases there.
func (s *Simulator) Drag(from, to host.Vec2, b host.MouseButton) {
	if s.state.MousePos != from {
		s.MoveTo(from)
	}
	s.ButtonDown(b)
	s.SleepShort()
	s.MoveTo(to)
	s.SleepShort()
	s.ButtonUp(b)
}

// Hold keeps b pressed for d of frame time regardless of speed.
func (s *Simulator) Hold(b host.MouseButton, d time.Duration) {
	s.ButtonDown(b)
	s.SleepNoSkip(d)
	s.ButtonUp(b)
}

// RepeatHoldDuration is how long a key (or, scaled by
// MouseRepeatMultiplier, a mouse button) must be held for the host to fire n
// repeats after the initial press.
func (s *Simulator) RepeatHoldDuration(n int, mouse bool) time.Duration {
	if n <= 0 {
		return 0
	}
	d := s.cfg.KeyRepeatDelay + time.Duration(n-1)*s.cfg.KeyRepeatRate + s.cfg.KeyRepeatRate/2
	if mouse {
		d = time.Duration(float64(d) * s.cfg.MouseRepeatMultiplier)
	}
	return d
}

// HoldForRepeats holds b long enough for n repeats.
func (s *Simulator) HoldForRepeats(b host.MouseButton, n int) {
	s.Hold(b, s.RepeatHoldDuration(n, true))
}

// KeyPress presses and releases key with mods count times.
func (s *Simulator) KeyPress(key host.Key, mods host.KeyMods, count int) {
	for i := 0; i < count; i++ {
		s.KeyDown(key, mods)
		s.KeyUp(key, mods)
	}
}

// KeyHold keeps key pressed for d of frame time.
func (s *Simulator) KeyHold(key host.Key, mods host.KeyMods, d time.Duration) {
	s.KeyDown(key, mods)
	s.SleepNoSkip(d)
	s.KeyUp(key, mods)
}

// TargetError reports an item that could not be resolved within its frame
// budget.
type TargetError struct {
	ID     host.ID
	Name   string
	Frames int
	// LastSeen is the last frame the item was reported in, -1 if never.
	LastSeen int
}

// Disappeared distinguishes an item that vanished from one never reported.
func (e *TargetError) Disappeared() bool { return e.LastSeen >= 0 }

func (e *TargetError) Error() string {
	if e.Disappeared() {
		return fmt.Sprintf("item %q (0x%08X) disappeared: last seen at frame %d, not back within %d frames", e.Name, e.ID, e.LastSeen, e.Frames)
	}
	return fmt.Sprintf("item %q (0x%08X) never appeared within %d frames", e.Name, e.ID, e.Frames)
}

// WaitForItem yields until id was reported in the last built frame, for at
// most budget frames (TargetResolveFrames when budget <= 0).
func (s *Simulator) WaitForItem(id host.ID, name string, budget int) (registry.ItemInfo, error) {
	s.frames.Enter()
	if budget <= 0 {
		budget = s.cfg.TargetResolveFrames
	}
	lastSeen := -1
	for waited := 0; ; waited++ {
		if info, ok := s.items.Query(id); ok && info.TimestampMain >= 0 {
			if info.TimestampMain >= s.frames.FrameCount() {
				return info, nil
			}
			lastSeen = max(lastSeen, info.TimestampMain)
		}
		if waited >= budget {
			return registry.ItemInfo{}, &TargetError{ID: id, Name: name, Frames: budget, LastSeen: lastSeen}
		}
		s.frames.Yield()
	}
}

func hitRect(info registry.ItemInfo) host.Rect {
	if info.ClipRect.Empty() {
		return info.Rect
	}
	return info.ClipRect
}

// MoveToItem resolves id and moves the pointer to the centre of its visible
// rectangle, following the item if it moves while the pointer travels.
func (s *Simulator) MoveToItem(id host.ID, name string) (registry.ItemInfo, error) {
	info, err := s.WaitForItem(id, name, 0)
	if err != nil {
		return info, err
	}
	for attempt := 0; attempt < 3; attempt++ {
		r := hitRect(info)
		if attempt == 0 || !r.Contains(s.state.MousePos) {
			s.MoveTo(r.Center())
		}
		info, err = s.WaitForItem(id, name, 0)
		if err != nil {
			return info, err
		}
		if hitRect(info).Contains(s.state.MousePos) {
			return info, nil
		}
	}
	return info, fmt.Errorf("pointer at %s could not reach item %q, now at %s", s.state.MousePos, name, hitRect(info))
}
